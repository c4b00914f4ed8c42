package cmd

import (
	"github.com/abhisek/numinary/internal/app"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	events := st.EventRepo()
	return app.Run(ctx, app.Options{
		KV:        st.KVRepo(),
		Events:    events,
		Generator: newGenerator(cmd),
		Tutor:     newTutor(ctx, events),
	})
}

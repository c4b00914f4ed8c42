package bot

import (
	"context"
	"slices"
	"testing"

	"github.com/abhisek/numinary/internal/store"
)

func TestStoredChatsAndForget(t *testing.T) {
	b, _, st := newTestBot(t, nil)
	ctx := context.Background()
	kv := st.KVRepo()

	b.HandleUpdate(ctx, text(12, "/calc 1+1"))
	b.HandleUpdate(ctx, text(3, "/calc 2+2"))
	if err := store.SetJSON(ctx, kv, "calcHistory", []string{}); err != nil {
		t.Fatal(err)
	}

	ids, err := StoredChats(ctx, kv)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(ids, []int64{3, 12}) {
		t.Errorf("StoredChats = %v, want [3 12]", ids)
	}

	n, err := ForgetChat(ctx, kv, 3)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("ForgetChat removed %d keys, want 3", n)
	}

	ids, err = StoredChats(ctx, kv)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(ids, []int64{12}) {
		t.Errorf("StoredChats after forget = %v, want [12]", ids)
	}
	if _, ok, _ := kv.Get(ctx, "calcHistory"); !ok {
		t.Error("local history should survive forgetting a chat")
	}
}

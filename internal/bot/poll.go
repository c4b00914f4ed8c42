package bot

import (
	"context"
	"errors"
	"log"
	"net"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Run long-polls for updates until ctx is done. Poll failures are logged
// and retried with a bounded delay.
func (b *Bot) Run(ctx context.Context) error {
	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			b.Close(context.WithoutCancel(ctx))
			return nil
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = b.cfg.PollTimeout

		updates, err := b.api.GetUpdates(u)
		if err != nil {
			d := min(max(retryDelay(err), b.cfg.RetryMin), b.cfg.RetryMax)
			log.Printf("bot: poll: %v; retry in %v", err, d)
			sleepCtx(ctx, d)
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			b.HandleUpdate(ctx, upd)
		}
	}
}

// retryDelay picks a delay for a failed poll. Telegram's 429 carries
// retry_after.
func retryDelay(err error) time.Duration {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) && tgErr.RetryAfter > 0 {
		return time.Duration(tgErr.RetryAfter) * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return 2 * time.Second
	}
	return time.Second
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

package bot

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/abhisek/numinary/internal/session"
	"github.com/abhisek/numinary/internal/store"
)

const chatKeyPrefix = "chat:"

// StoredChats returns the ids of chats that have saved state, ascending.
func StoredChats(ctx context.Context, kv store.KVRepo) ([]int64, error) {
	keys, err := kv.Keys(ctx, chatKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list chat keys: %w", err)
	}
	var ids []int64
	for _, k := range keys {
		rest := strings.TrimPrefix(k, chatKeyPrefix)
		idPart, _, ok := strings.Cut(rest, ":")
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(idPart, 10, 64)
		if err != nil {
			continue
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// ForgetChat deletes the saved history, progress and lessons of one chat.
// Events are kept. It returns the number of keys removed.
func ForgetChat(ctx context.Context, kv store.KVRepo, chatID int64) (int64, error) {
	n, err := kv.DeletePrefix(ctx, session.NamespacePrefix(Namespace(chatID)))
	if err != nil {
		return 0, fmt.Errorf("forget chat %d: %w", chatID, err)
	}
	return n, nil
}

package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"time"

	"encore/constants"
	"encore/state"
	"encore/types"

	"go.uber.org/zap"
)

// ViewerKey identifies a reader for view dedup: the user id when signed in,
// otherwise a hash of the client's host. The port is dropped so every
// connection from one address is the same reader.
func ViewerKey(userID, remoteAddr string) string {
	if userID != "" {
		return "u:" + userID
	}

	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}

	sum := sha256.Sum256([]byte(host))
	return "ip:" + hex.EncodeToString(sum[:16])
}

func diaryViewKey(diaryID, viewerKey string) string {
	return fmt.Sprintf("diary:view:%s:%s", diaryID, viewerKey)
}

// RecordDiaryView counts one view per viewer per window. If Redis cannot be
// reached the view is counted anyway.
func RecordDiaryView(ctx context.Context, diary *types.MusicDiary, viewerKey string) (bool, error) {
	first := true

	if state.Redis != nil {
		ok, err := state.Redis.SetNX(ctx, diaryViewKey(diary.ID.String(), viewerKey), 1, constants.DiaryViewWindowSeconds*time.Second).Result()
		if err != nil {
			state.Logger.Warn("View dedup unavailable, counting view", zap.Error(err), zap.String("diaryID", diary.ID.String()))
		} else {
			first = ok
		}
	}

	if !first {
		return false, nil
	}

	err := bumpCounter(state.Pool.WithContext(ctx), &types.MusicDiary{}, diary.ID, "view_count", 1)
	if err != nil {
		return false, err
	}

	diary.ViewCount++
	return true, nil
}

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// signupLockTTL bounds how long a stale marker can linger if the holder
// crashes between set and clear. The lock is advisory: it narrows the window
// between the uniqueness check and the user write, it does not guarantee it.
const signupLockTTL = 30 * time.Second

func signupLockKey(username string) string {
	return fmt.Sprintf("signup:%s", username)
}

// AcquireSignupLock test-and-sets a short-lived marker for the username.
// It returns an owner token on success and ("", false, nil) when another
// in-flight registration already holds the marker. With no Redis client the
// lock degrades to a no-op grant: the authoritative uniqueness check still
// stands.
func AcquireSignupLock(ctx context.Context, username string) (string, bool, error) {
	if client == nil {
		return "", true, nil
	}

	token := uuid.NewString()
	ok, err := client.SetNX(ctx, signupLockKey(username), token, signupLockTTL).Result()
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// ReleaseSignupLock clears the marker, but only if we still own it. This is
// best-effort: a failure here just leaves the marker to expire on its own.
func ReleaseSignupLock(ctx context.Context, username, token string) {
	if client == nil || token == "" {
		return
	}

	key := signupLockKey(username)
	current, err := client.Get(ctx, key).Result()
	if err != nil {
		// expired or unreachable; the TTL covers us either way
		return
	}
	if current == token {
		client.Del(ctx, key)
	}
}

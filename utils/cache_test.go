package utils

import "testing"

func TestNewRedisCacheUnreachable(t *testing.T) {
	if _, err := NewRedisCache("127.0.0.1:1", "", 0); err == nil {
		t.Fatal("expected ping failure for an unreachable redis")
	}
}

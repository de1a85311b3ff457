package ctxutil

import (
	"context"
	"testing"
	"time"
)

func TestIdentityRoundTrip(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{UserID: 7, Role: "parent"})
	id, ok := IdentityFrom(ctx)
	if !ok || id.UserID != 7 || id.Role != "parent" {
		t.Fatalf("получили %+v, ok=%v", id, ok)
	}
	if UserID(context.Background()) != 0 {
		t.Fatal("у анонимного контекста id должен быть 0")
	}
}

func TestWithDBTimeout_RespectsShorterParent(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	ctx, cancel2 := WithDBTimeout(parent)
	defer cancel2()

	dl, ok := ctx.Deadline()
	if !ok {
		t.Fatal("ожидали дедлайн")
	}
	if time.Until(dl) > 200*time.Millisecond {
		t.Fatalf("дедлайн длиннее родительского: %v", time.Until(dl))
	}
}

func TestWithDBTimeout_Default(t *testing.T) {
	ctx, cancel := WithDBTimeout(context.Background())
	defer cancel()
	dl, ok := ctx.Deadline()
	if !ok {
		t.Fatal("ожидали дедлайн")
	}
	if left := time.Until(dl); left <= 0 || left > DefaultDBTimeout {
		t.Fatalf("неожиданный остаток %v", left)
	}
}

package route

import (
	"context"

	"github.com/trojan-gate/trojan-gate/routing"
)

func contextWithGroup(ctx context.Context, group *routing.Group) context.Context {
	return context.WithValue(ctx, groupCtxKey{}, group)
}

func groupFromContext(ctx context.Context) *routing.Group {
	return ctx.Value(groupCtxKey{}).(*routing.Group)
}

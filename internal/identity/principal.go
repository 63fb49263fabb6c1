package identity

import "context"

// Principal 由 JWT 中间件写入请求 context，只携带 token 里的声明
type Principal struct {
	UID  string
	Role string
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok && p.UID != ""
}

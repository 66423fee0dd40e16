package commands

import (
	"context"
	"fmt"

	"github.com/livefir/onprty/internal/publish"
)

// Publish renders a stored site with linked assets into the publish
// directory.
//
//	onprty publish <id>
func Publish(args []string) error {
	return withPublisher(args, "publish", func(ctx context.Context, svc *publish.Service, id string) error {
		url, err := svc.Publish(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "✅ Published %s\n", url)
		return nil
	})
}

// Unpublish removes a site from the publish directory.
//
//	onprty unpublish <id>
func Unpublish(args []string) error {
	return withPublisher(args, "unpublish", func(ctx context.Context, svc *publish.Service, id string) error {
		if err := svc.Unpublish(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "✅ Unpublished %s\n", id)
		return nil
	})
}

func withPublisher(args []string, name string, fn func(context.Context, *publish.Service, string) error) error {
	flags, rest := splitFlags(args)
	if len(rest) != 1 {
		return fmt.Errorf("usage: onprty %s <id>", name)
	}

	e, err := newEnv(flags)
	if err != nil {
		return err
	}
	defer e.close()

	ctx := context.Background()
	st, err := e.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	pub := publish.NewDirPublisher(e.cfg.PublishDir, e.cfg.PublicBaseURL, e.logger)
	svc := publish.NewService(st, e.assembler(), pub, e.logger)
	return fn(ctx, svc, rest[0])
}

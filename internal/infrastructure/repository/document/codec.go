package document

import (
	"bytes"
	"context"
	"fmt"

	"github.com/bytedance/sonic"
)

func readList[T any](ctx context.Context, store Store, name string) ([]T, string, error) {
	body, token, err := store.Read(ctx, name)
	if err != nil {
		return nil, "", fmt.Errorf("read %s document: %w", name, err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, token, nil
	}

	var out []T
	if err := sonic.Unmarshal(body, &out); err != nil {
		return nil, "", fmt.Errorf("decode %s document: %w", name, err)
	}
	return out, token, nil
}

func writeList[T any](ctx context.Context, store Store, name string, items []T, expectedToken string) (string, error) {
	if items == nil {
		items = []T{}
	}
	body, err := sonic.ConfigStd.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode %s document: %w", name, err)
	}
	token, err := store.Write(ctx, name, body, expectedToken)
	if err != nil {
		return "", fmt.Errorf("write %s document: %w", name, err)
	}
	return token, nil
}

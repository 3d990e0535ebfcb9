package gamemode

import (
	"context"
	"fmt"
	"path"

	"github.com/viant/afs"

	"github.com/sandrolain/ddexpr/pkg/parser"
)

// Load downloads and decodes the game mode stored at URL.
// Any scheme afs supports works ("file://", "mem://", plain paths, ...).
// The URL extension selects YAML or JSON.
func Load(ctx context.Context, URL string, opts ...parser.Option) (*GameMode, error) {
	return LoadWith(ctx, afs.New(), URL, opts...)
}

// LoadWith is Load with an explicit storage service.
func LoadWith(ctx context.Context, fs afs.Service, URL string, opts ...parser.Option) (*GameMode, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download game mode %v: %w", URL, err)
	}
	gm, err := Decode(data, path.Ext(URL), opts...)
	if err != nil {
		return nil, fmt.Errorf("game mode %v: %w", URL, err)
	}
	return gm, nil
}

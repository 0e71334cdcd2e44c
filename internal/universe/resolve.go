package universe

import (
	"github.com/wonny/pulse/pkg/config"
)

// Source names reported by Resolve
const (
	SourceDatabase = "database"
	SourceFile     = "file"
	SourceEnv      = "env"
	SourceDefault  = "default"
)

// Resolve picks the universe source in priority order:
// database (when repo is non-nil), UNIVERSE_FILE, SYMBOLS, then the default list.
func Resolve(cfg *config.Config, repo *Repository) (Source, string, error) {
	switch {
	case repo != nil:
		return repo, SourceDatabase, nil
	case cfg.Universe.File != "":
		src, err := LoadFile(cfg.Universe.File)
		if err != nil {
			return nil, "", err
		}
		return src, SourceFile, nil
	case len(cfg.Universe.Symbols) > 0:
		return NewStatic(cfg.Universe.Symbols), SourceEnv, nil
	default:
		return Default(), SourceDefault, nil
	}
}

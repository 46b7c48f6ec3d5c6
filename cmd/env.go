package cmd

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/urfave/cli"
)

// LoadEnv loads the file named by the global --env-file flag into the
// process environment before the command flags are parsed, so RTIAW_*
// values from the file become flag defaults. Variables that are already set
// win, and a missing file is ignored.
func LoadEnv(ctx *cli.Context) error {
	return loadEnvFile(ctx.GlobalString("env-file"))
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debugf("no env file at %s", path)
			return nil
		}
		return cli.NewExitError("loading env file "+path+": "+err.Error(), 1)
	}
	logger.Debugf("loaded environment from %s", path)
	return nil
}

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zeebo/blake3"
	"vimagination.zapto.org/htmlmodule"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a rewritten HTML module alongside static files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(v.GetString("dir"))
			if err != nil {
				return fmt.Errorf("error getting absolute path for dir: %w", err)
			}

			s := &server{
				file:    v.GetString("file"),
				dir:     dir,
				log:     log.Logger,
				metrics: newMetrics(),
			}

			log.Info().Str("address", v.GetString("addr")).Str("file", s.file).Msg("Running")

			return s.listen(cmd.Context(), v.GetString("addr"))
		},
	}

	cmd.Flags().String("addr", ":3000", "listen address")
	cmd.Flags().String("file", "module.html", "HTML document served at /module")
	cmd.Flags().String("dir", ".", "directory of static files")

	_ = v.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	_ = v.BindPFlag("file", cmd.Flags().Lookup("file"))
	_ = v.BindPFlag("dir", cmd.Flags().Lookup("dir"))

	return cmd
}

type server struct {
	file    string
	dir     string
	log     zerolog.Logger
	metrics *metrics
}

func (s *server) app() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Get("/module", s.module)
	app.Get("/metrics", s.metrics.handler())
	app.Static("/", s.dir)

	return app
}

// listen serves until the listener fails or ctx is cancelled.
func (s *server) listen(ctx context.Context, addr string) error {
	app := s.app()
	done := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
			_ = app.Shutdown()
		case <-done:
		}
	}()

	err := app.Listen(addr)

	close(done)

	return err
}

func (s *server) module(c *fiber.Ctx) error {
	data, err := os.ReadFile(s.file)
	if err != nil {
		s.log.Warn().Err(err).Str("file", s.file).Msg("error reading module")
		s.metrics.observe(0, err)

		return c.SendStatus(fiber.StatusInternalServerError)
	}

	start := time.Now()

	code, err := htmlmodule.RewriteBytes(c.UserContext(), data, htmlmodule.Logger(s.log), htmlmodule.WorkingDir(s.dir))

	duration := time.Since(start)

	s.metrics.observe(duration, err)

	if err != nil {
		s.log.Warn().Err(err).Str("file", s.file).Msg("error rewriting module")

		return c.SendStatus(fiber.StatusInternalServerError)
	}

	s.log.Debug().
		Str("file", s.file).
		Float64("ms", float64(duration.Microseconds())/1e3).
		Msg("rewrote module")

	sum := blake3.Sum256([]byte(code))
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`

	c.Set(fiber.HeaderETag, etag)

	if c.Get(fiber.HeaderIfNoneMatch) == etag {
		return c.SendStatus(fiber.StatusNotModified)
	}

	c.Set(fiber.HeaderContentType, "application/javascript")

	return c.SendString(code)
}

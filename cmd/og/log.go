package main

import (
	"log/slog"
	"os"
	"strconv"
)

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if v, _ := strconv.ParseBool(os.Getenv("DEBUG")); v {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

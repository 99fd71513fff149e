package common

import (
	"os"
	"strconv"
	"strings"
	"testing"
)

func IsTestEnv() bool {
	return testing.Testing()
}

func IsDevelopment() bool {
	return os.Getenv(EnvKeyGoEnv) == "development"
}

func IsProduction() bool {
	return os.Getenv(EnvKeyGoEnv) == "production"
}

// GetEnvOr returns the trimmed value of key, or fallback when it is unset or blank.
func GetEnvOr(key string, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetEnvIntOr(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func Mapper[T any, R any](items []T, mapFn func(T) R) []R {
	mapped := make([]R, len(items))
	for i := range len(items) {
		mapped[i] = mapFn(items[i])
	}
	return mapped
}

func Reducer[T any, R any](items []T, reduceFn func(R, T) R, initAcc R) R {
	finalAcc := initAcc
	for i := range len(items) {
		finalAcc = reduceFn(finalAcc, items[i])
	}
	return finalAcc
}

func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

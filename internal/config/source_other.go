//go:build !linux

package config

func defaultSource() string { return "pattern" }

//go:build windows

package config

// defaultProcessName matches the emulator binary name on this platform.
const defaultProcessName = "Dolphin"

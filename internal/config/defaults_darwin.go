//go:build darwin

package config

// defaultProcessName matches the emulator binary name on this platform.
const defaultProcessName = "Dolphin"

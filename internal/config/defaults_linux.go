//go:build linux

package config

// defaultProcessName matches the emulator binary name on this platform.
const defaultProcessName = "dolphin-emu"

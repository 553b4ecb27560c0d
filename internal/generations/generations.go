// Package generations lists and trims the generations of a Nix profile
// (the /nix/var/nix/profiles/* symlink family), the structure the
// auto-clean step of a rebuild actually operates on.
package generations

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Info describes one profile generation.
type Info struct {
	Number          int
	Dir             string
	BuildDate       time.Time
	NixosVersion    string
	KernelVersion   string
	Specialisations []string
	Current         bool
}

// numberFromDirName extracts the generation number from a profile link
// name like "system-42-link", trimming the "-link" suffix before parsing
// the trailing "-N" the same way the Rust implementation does.
func numberFromDirName(name string) (int, bool) {
	trimmed := strings.TrimSuffix(name, "-link")
	idx := strings.LastIndex(trimmed, "-")
	if idx < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(trimmed[idx+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// List finds every generation link in profileDir (the directory holding a
// profile's "<name>-N-link" entries) and describes each one, comparing
// against currentProfile (typically "/run/current-system" or
// "~/.local/state/nix/profiles/home-manager") to mark the active one.
func List(profileDir, currentProfile string) ([]Info, error) {
	entries, err := os.ReadDir(profileDir)
	if err != nil {
		return nil, err
	}

	currentReal, _ := filepath.EvalSymlinks(currentProfile)

	var out []Info
	for _, e := range entries {
		number, ok := numberFromDirName(e.Name())
		if !ok {
			continue
		}
		dir := filepath.Join(profileDir, e.Name())
		info, descErr := describe(dir, number, currentReal)
		if descErr != nil {
			continue
		}
		out = append(out, info)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func describe(dir string, number int, currentReal string) (Info, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return Info{}, err
	}

	buildDate := fi.ModTime()

	nixosVersion := "Unknown"
	if data, err := os.ReadFile(filepath.Join(dir, "nixos-version")); err == nil {
		nixosVersion = strings.TrimSpace(string(data))
	}

	kernelVersion := "Unknown"
	if kernelReal, err := filepath.EvalSymlinks(filepath.Join(dir, "kernel")); err == nil {
		modulesDir := filepath.Join(filepath.Dir(kernelReal), "lib", "modules")
		if entries, err := os.ReadDir(modulesDir); err == nil {
			var versions []string
			for _, e := range entries {
				versions = append(versions, e.Name())
			}
			if len(versions) > 0 {
				kernelVersion = strings.Join(versions, ", ")
			}
		}
	}

	var specialisations []string
	if entries, err := os.ReadDir(filepath.Join(dir, "specialisation")); err == nil {
		for _, e := range entries {
			specialisations = append(specialisations, e.Name())
		}
	}

	dirReal, _ := filepath.EvalSymlinks(dir)
	current := currentReal != "" && dirReal == currentReal

	return Info{
		Number:          number,
		Dir:             dir,
		BuildDate:       buildDate,
		NixosVersion:    nixosVersion,
		KernelVersion:   kernelVersion,
		Specialisations: specialisations,
		Current:         current,
	}, nil
}

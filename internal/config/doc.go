// Package config loads and writes the optional .workman.yaml workspace
// configuration and resolves project selectors against its groups.
package config

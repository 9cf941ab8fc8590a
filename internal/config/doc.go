// Package config defines the kiosk settings and provides helpers to load,
// validate and save them in YAML format.
//
// Values are read from the YAML file first, then BRIE_BLASTER_* environment
// variables override them, and Validate fills defaults for anything unset.
package config

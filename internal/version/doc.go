// Package version holds the build metadata of brie-blaster.
//
// Version, Commit and BuildTime are set with -ldflags -X at release time;
// local builds report "dev".
package version

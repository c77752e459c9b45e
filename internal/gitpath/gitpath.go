// Package gitpath contains the constants describing the layout of a
// .git directory, so the rest of the codebase never hardcodes path
// fragments inline.
package gitpath

import "path/filepath"

// Files and directories found directly under .git/
const (
	DotGitPath  = ".git"
	ConfigPath  = "config"
	HEADPath    = "HEAD"
	ObjectsPath = "objects"
	RefsPath    = "refs"
)

// ObjectPath returns the on-disk path of a loose object given its
// 40-character hex id, relative to the .git directory.
//
// Ex. the path of fcfe68a0e44e04bd7fd564fc0b75f1ae457e18b3 is:
// objects/fc/fe68a0e44e04bd7fd564fc0b75f1ae457e18b3
func ObjectPath(sha string) string {
	return filepath.Join(ObjectsPath, sha[:2], sha[2:])
}

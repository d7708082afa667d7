// Package workspace locates the projects of a workspace directory. It
// provides the Context type that holds the resolved root and optional
// configuration, project discovery and selection, the managed .gitignore
// block, build-artifact discovery and workspace initialisation.
package workspace

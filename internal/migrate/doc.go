// Package migrate converts projects that describe their packaging with
// setup.py, setup.cfg or requirements.txt into a single pyproject.toml.
//
// Each legacy file is read by its extractor, the records are merged by
// source priority, and the synthesized manifest is layered under any
// pyproject.toml already present so that existing choices survive.
package migrate

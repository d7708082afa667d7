// Package extract reads packaging metadata out of the files a Python
// project may carry: setup.py, setup.cfg, requirements.txt and an existing
// pyproject.toml.
//
// Extractors never fail. Anything they cannot read becomes a warning on the
// returned record, prefixed with the file it came from.
package extract

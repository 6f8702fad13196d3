// Package snapshot persists cache snapshots as JSON or YAML files.
//
// The encoded document mirrors fscache.Snapshot:
//
//	{
//	  "files": {
//	    "/srv/data/a.bin": {"exist": true, "attributes": {"size": 6, "checksum": "86C18187"}},
//	    "/srv/data/gone":  {"exist": false}
//	  },
//	  "dirs": {
//	    "/srv/data": {"files": ["a.bin"], "dirs": [], "recursive_files": ["/srv/data/a.bin"]}
//	  }
//	}
//
// A recursive set that is absent was never computed; an empty list was
// computed and is empty. Files are replaced atomically on save.
package snapshot

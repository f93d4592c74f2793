// Package paths lays out the backend's files below its data directory.
//
//	data/
//	  ├── kv/          (diskv driver: one file per key)
//	  └── desktop.db   (sqlite driver)
//
// Static wallpapers are read from public/wallpapers unless configured.
package paths

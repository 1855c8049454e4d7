/*
Package backend provides the registry mapping uri schemes to configured
filesystems. The host wires each configured store in at startup:

	import (
	    "github.com/cmstack/s3vfs/backend"
	    "github.com/cmstack/s3vfs/backend/s3"
	)

	func main() {
	    backend.Register("s3", s3.NewFileSystem(cfg))
	}

Request handling then resolves stores by the scheme of the destination path:

	fs := backend.Backend(utils.Scheme(destination))
*/
package backend

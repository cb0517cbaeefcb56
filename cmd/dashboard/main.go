// dashboard generates Home Assistant dashboards from the registries and the
// live state of one instance.
//
// Usage:
//
//	dashboard generate --format yaml        # print one dashboard and exit
//	dashboard serve --listen :8099          # serve the HTTP API
package main

var version = "dev"

func main() {
	Execute(version)
}

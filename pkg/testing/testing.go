package testing

import (
	"os"
	"path"
	"runtime"
)

func init() {
	// tests run from the project root so relative paths (logs/, sheets/, uploads/)
	// resolve the same way they do for cmd/server
	//
	//   import (
	//     _ "liyu1981.xyz/plant-monitor-service/pkg/testing"
	//   )

	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "..", "..")
	if err := os.Chdir(dir); err != nil {
		panic(err)
	}
}

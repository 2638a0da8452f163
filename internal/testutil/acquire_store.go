package testutil

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/avend/jotter/store"
)

type (
	TestLog interface {
		Fatal(...interface{})
		Log(...interface{})
	}
)

// AcquireStore opens a fresh sqlite store in a temp directory and hands
// back a cleanup function that closes it and removes the directory.
func AcquireStore(ctx context.Context, t TestLog) (*store.Store, func()) {
	dir, err := ioutil.TempDir("", "jotter-tests")
	if err != nil {
		t.Fatal(err)
	}
	st, err := store.Open(ctx, filepath.Join(dir, "jotter.db"))
	if err != nil {
		t.Fatal(err)
	}
	return st, func() {
		err := st.Close()
		if err != nil {
			t.Log("unable to close store", err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}

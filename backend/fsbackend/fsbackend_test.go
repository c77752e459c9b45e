package fsbackend_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/minigit-go/minigit/backend/fsbackend"
	"github.com/minigit-go/minigit/internal/gitpath"
	"github.com/minigit-go/minigit/internal/testhelper"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func TestInit(t *testing.T) {
	t.Parallel()

	t.Run("regular repo should work", func(t *testing.T) {
		t.Parallel()

		dir, cleanup := testhelper.TempDir(t)
		t.Cleanup(cleanup)

		dotGit := filepath.Join(dir, gitpath.DotGitPath)
		b := fsbackend.New(afero.NewOsFs(), dotGit)
		t.Cleanup(func() {
			require.NoError(t, b.Close())
		})

		require.NoError(t, b.Init())

		head, err := ioutil.ReadFile(filepath.Join(dotGit, gitpath.HEADPath))
		require.NoError(t, err)
		assert.Equal(t, "ref: refs/heads/main\n", string(head))

		info, err := os.Stat(filepath.Join(dotGit, gitpath.ObjectsPath))
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		info, err = os.Stat(filepath.Join(dotGit, gitpath.RefsPath))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("should fail if directory exists without write perm", func(t *testing.T) {
		t.Parallel()

		if runtime.GOOS == "windows" {
			t.Skip("Windows doesn't seem to be blocking writes.")
		}

		dir, cleanup := testhelper.TempDir(t)
		t.Cleanup(cleanup)

		dotGit := filepath.Join(dir, gitpath.DotGitPath)
		err := os.MkdirAll(dotGit, 0o550)
		require.NoError(t, err)

		b := fsbackend.New(afero.NewOsFs(), dotGit)
		t.Cleanup(func() {
			require.NoError(t, b.Close())
		})

		err = b.Init()
		require.Error(t, err)
		var perror *os.PathError
		require.True(t, xerrors.As(err, &perror), "error should be os.PathError")
	})
}

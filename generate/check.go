package generate

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/afero"
)

// Check regenerates the bridge in memory and compares it with the
// destination. When they differ it returns a unified diff from the
// destination to the fresh text along with ErrOutOfDate. A missing
// destination compares as empty.
func (p *Pipeline) Check(ctx context.Context, sources ...Source) (string, error) {
	dest := p.opts.Dest
	if dest == "" || dest == NoWrite {
		return "", &PathError{Path: dest, Reason: "check needs a destination file"}
	}

	want, err := p.Generate(ctx, sources...)
	if err != nil {
		return "", err
	}

	got, err := afero.ReadFile(p.fs, dest)
	if err != nil && !os.IsNotExist(err) {
		return "", errors.Wrapf(err, "reading %s", dest)
	}
	if string(got) == want {
		return "", nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(got)),
		B:        difflib.SplitLines(want),
		FromFile: dest,
		ToFile:   dest + " (generated)",
		Context:  3,
	})
	if err != nil {
		return "", errors.Wrap(err, "diffing bridge")
	}
	return diff, ErrOutOfDate
}

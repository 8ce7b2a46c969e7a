// Package onewrite writes a decoded document's extracted files to a
// destination directory, the way `lorenz-winsysroot/main.go`'s TargetI
// sink writes its sysroot tree: one Create-then-Write per entry, one log
// line per file, a final count.
package onewrite

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/onevault/onecue/onefile"
)

// WriteAll writes every extracted file to dir, appending ext to each
// filename (spec.md §6's `-o DIR`/`-e EXT`). Files with an empty suggested
// filename are named after their OID so nothing is silently dropped.
func WriteAll(log *logrus.Logger, files []*onefile.ExtractedFile, dir, ext string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating output directory %q", dir)
	}

	written := 0
	for _, f := range files {
		name := f.Filename
		if name == "" {
			name = f.OID.String()
		}
		name += ext

		target := filepath.Join(dir, filepath.Base(name))
		if err := os.WriteFile(target, f.Payload, 0o644); err != nil {
			return errors.Wrapf(err, "writing extracted file %q", target)
		}
		log.WithFields(logrus.Fields{
			"oid":  f.OID.String(),
			"path": target,
			"size": len(f.Payload),
		}).Info("wrote extracted file")
		written++
	}

	log.WithField("count", written).Info("finished writing extracted files")
	return nil
}

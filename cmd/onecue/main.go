// Command onecue decodes a OneNote .one/.onetoc2 file, optionally
// extracting embedded files and/or emitting a JSON report (spec.md §6).
package main

import (
	"flag"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/onevault/onecue/onefile"
	"github.com/onevault/onecue/onewrite"
	"github.com/onevault/onecue/report"
)

var (
	flagFile          = flag.String("f", "", "input .one/.onetoc2 file (required)")
	flagOutDir        = flag.String("o", ".", "directory to extract embedded files into")
	flagExt           = flag.String("e", "", "suffix appended to extracted filenames")
	flagJSON          = flag.String("j", "", "write a JSON report to PATH; a PATH value is required (use -json for stdout)")
	flagJSONSet       = flag.Bool("json", false, "emit a JSON report to stdout (equivalent to -j with no path)")
	flagJSONInclude   = flag.String("json-include", "", "comma list of report sections to include (default: all)")
	flagJSONNoContent = flag.Bool("json-files-no-content", false, "omit file payloads from the JSON report, include a SHA-256 digest instead")
)

func main() {
	flag.Parse()
	log := logrus.New()

	if *flagFile == "" {
		log.Fatal("missing required -f FILE")
	}

	buf, err := os.ReadFile(*flagFile)
	if err != nil {
		log.WithError(err).Fatal("reading input file")
	}

	doc, diags := onefile.Parse(buf)

	fatal := false
	for _, d := range diags {
		entry := log.WithFields(logrus.Fields{
			"offset": d.Offset,
			"kind":   d.Kind.String(),
		})
		switch d.Severity {
		case onefile.SeverityFatal:
			entry.Error(d.Detail)
			fatal = true
		case onefile.SeverityRecoverable:
			entry.Warn(d.Detail)
		default:
			entry.Info(d.Detail)
		}
	}

	if doc == nil {
		log.Fatal("decoding failed, no document produced")
	}

	if len(doc.Files) > 0 && (*flagOutDir != "" || *flagExt != "") {
		if err := onewrite.WriteAll(log, doc.Files, *flagOutDir, *flagExt); err != nil {
			log.WithError(err).Fatal("writing extracted files")
		}
	}

	if *flagJSON != "" || *flagJSONSet {
		var sections []string
		if *flagJSONInclude != "" {
			sections = strings.Split(*flagJSONInclude, ",")
		}
		opt := report.NewOptions(sections, *flagJSONNoContent)
		rep := report.Build(doc, opt)

		out := os.Stdout
		if *flagJSON != "" {
			f, err := os.Create(*flagJSON)
			if err != nil {
				log.WithError(err).Fatal("creating JSON report file")
			}
			defer f.Close()
			out = f
		}
		if err := report.Write(out, rep); err != nil {
			log.WithError(err).Fatal("writing JSON report")
		}
	}

	if fatal {
		os.Exit(1)
	}
}

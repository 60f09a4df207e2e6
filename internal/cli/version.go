package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/watchfire-io/nanny/internal/buildinfo"
)

// VersionInfo holds version information.
type VersionInfo struct {
	Version   string `json:"version"`
	Codename  string `json:"codename"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Go        string `json:"go"`
}

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Show version information",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := loadVersionInfo()
		out := newPrinter(cmd, nil)
		if out.json {
			return out.JSON(info)
		}
		out.Printf("%s %s %s\n", styleBrand.Render("nanny"), styleVersion.Render(info.Version), styleLabel.Render("("+info.Codename+")"))
		out.Printf("  Commit: %s\n", info.Commit)
		out.Printf("  Built: %s\n", info.BuildDate)
		out.Printf("  OS/Arch: %s/%s\n", info.OS, info.Arch)
		out.Printf("  Go: %s\n", info.Go)
		return nil
	},
}

func loadVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   buildinfo.Version,
		Codename:  buildinfo.Codename,
		Commit:    buildinfo.CommitHash,
		BuildDate: buildinfo.BuildDate,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		Go:        runtime.Version(),
	}
}

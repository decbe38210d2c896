package version

import (
	"fmt"
	"io"
	"os"
)

// 版本信息，构建时通过 -ldflags "-X github.com/dszqbsm/itdashboard/version.Version=..." 注入
var (
	BuildTS   = "None"
	GitHash   = "None"
	GitBranch = "None"
	Version   = "None"
)

// 返回格式化后的版本号：版本后接7位的提交哈希
func GetVersion() string {
	if GitHash != "" {
		h := GitHash
		if len(h) > 7 {
			h = h[:7]
		}
		return fmt.Sprintf("%s-%s", Version, h)
	}
	return Version
}

// 将全部版本信息写入w
func Fprint(w io.Writer) {
	fmt.Fprintln(w, "Version:          ", GetVersion())
	fmt.Fprintln(w, "Git Branch:       ", GitBranch)
	fmt.Fprintln(w, "Git Commit:       ", GitHash)
	fmt.Fprintln(w, "Build Time (UTC): ", BuildTS)
}

// 将全部版本信息打印到控制台
func Printer() {
	Fprint(os.Stdout)
}

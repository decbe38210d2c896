package cmd

import (
	"os"

	"github.com/dszqbsm/itdashboard/cmd/check"
	"github.com/dszqbsm/itdashboard/cmd/crawl"
	"github.com/dszqbsm/itdashboard/version"
	"github.com/spf13/cobra"
)

// version子命令，打印版本信息
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version.",
	Long:  "print version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		version.Printer()
	},
}

// 根命令的配置文件路径
var cfgFile string

/*
组织并执行命令行

挂载run、clean、check、version四个子命令；不带子命令时直接执行一次采集，出错时以非0状态码退出
*/
func Execute() {
	var rootCmd = &cobra.Command{
		Use:          "itdashboard",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return crawl.Run(cfgFile)
		},
	}
	rootCmd.Flags().StringVar(&cfgFile, "config", "config.yaml", "set config file")
	rootCmd.AddCommand(crawl.RunCmd, crawl.CleanCmd, check.CheckCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

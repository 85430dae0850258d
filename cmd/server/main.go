package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "1.0.0-dev"
	commit  = "main"
)

func main() {
	root := newRootCommand()

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newDedupeTagsCommand())
	root.AddCommand(newBonusCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "filetag",
		Short:         "Filecoin 文件标签服务",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// 为空时依次查找 ./config.yaml 与 ./config/config.yaml，均不存在时只使用环境变量
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "配置文件路径")
	cmd.Version = fmt.Sprintf("%s.%s", version, commit)

	return cmd
}

package main

import (
	"encoding/json"
	"fmt"

	"filetag-go/internal/models"
	"filetag-go/internal/repository"
	"filetag-go/internal/service"
	"filetag-go/pkg/drand"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	var rollback bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "执行数据库迁移",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			if rollback {
				if err := models.RollbackLast(a.db); err != nil {
					return err
				}
				a.logger.Info("已回滚最近一次迁移")
				return nil
			}

			if err := models.Migrate(a.db); err != nil {
				return err
			}
			a.logger.Info("数据库迁移完成")
			return nil
		},
	}

	cmd.Flags().BoolVar(&rollback, "rollback", false, "回滚最近一次迁移")
	return cmd
}

func newDedupeTagsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dedupe-tags",
		Short: "合并大小写或空白不同的重复标签",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			maintenance := service.NewTagMaintenance(repository.NewStore(a.db), a.logger)
			result, err := maintenance.DedupeTags(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
}

func newBonusCommand() *cobra.Command {
	var randomness string

	cmd := &cobra.Command{
		Use:   "bonus",
		Short: "查看当前信标对应的奖励积分",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("randomness") {
				return printJSON(cmd, service.BonusPreview{
					Randomness: randomness,
					Bonus:      drand.BonusFromRandomness(randomness),
				})
			}

			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			client := drand.NewClient(drand.Options{
				BaseURL:   a.cfg.Drand.BaseURL,
				ChainHash: a.cfg.Drand.ChainHash,
				Timeout:   a.cfg.Drand.GetTimeout(),
				Logger:    a.logger,
			})
			return printJSON(cmd, service.NewBonusService(client).Preview(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&randomness, "randomness", "", "使用给定随机值计算，不请求信标")
	return cmd
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

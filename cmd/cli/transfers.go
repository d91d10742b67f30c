package main

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/spf13/cobra"

	"github.com/and161185/jami-localstate/internal/errs"
	"github.com/and161185/jami-localstate/internal/model"
	"github.com/and161185/jami-localstate/internal/repository/sqlite"
	"github.com/and161185/jami-localstate/internal/service"
)

func newTransfersCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "transfers", Aliases: []string{"transfer"}, Short: "Resolve and record file-transfer paths"}

	cmd.AddCommand(&cobra.Command{
		Use:   "get ACCOUNT CONVERSATION TID",
		Short: "Print the recorded path of a transfer",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openTransfers(cmd.Context(), e)
			if err != nil {
				return err
			}
			key := model.TransferKey{AccountID: args[0], ConversationID: args[1], TransferID: args[2]}
			path, ok, err := svc.Path(cmd.Context(), key)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no path recorded for %s: %w", key, errs.ErrNotFound)
			}
			fmt.Fprintln(e.out, path)
			return nil
		},
	})

	var (
		tid    string
		upsert bool
	)
	set := &cobra.Command{
		Use:   "set ACCOUNT CONVERSATION PATH",
		Short: "Record the local path of a transfer",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openTransfers(cmd.Context(), e)
			if err != nil {
				return err
			}
			if tid == "" {
				tid = uuid.Must(uuid.NewV4()).String()
			}
			key := model.TransferKey{AccountID: args[0], ConversationID: args[1], TransferID: tid}
			write := svc.SetFilePath
			if upsert {
				write = svc.UpsertFilePath
			}
			id, err := write(cmd.Context(), key, args[2])
			if err != nil {
				return err
			}
			dups, err := svc.Duplicates(cmd.Context(), key)
			if err != nil {
				return err
			}
			return printJSON(e.out, struct {
				TransferID string `json:"tid"`
				Row        int64  `json:"row"`
				Duplicates int    `json:"duplicates"`
			}{tid, id, dups})
		},
	}
	set.Flags().StringVar(&tid, "tid", "", "transfer id (generated when empty)")
	set.Flags().BoolVar(&upsert, "upsert", false, "replace the recorded path instead of adding a row")
	cmd.AddCommand(set)
	return cmd
}

func openTransfers(ctx context.Context, e *env) (*service.TransferService, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	path, err := e.dirs.TransferDB()
	if err != nil {
		return nil, err
	}
	db, err := sqlite.Open(ctx, path,
		sqlite.WithBusyTimeout(e.cfg.StoreBusyTimeout),
		sqlite.WithLogger(e.log),
	)
	if err != nil {
		return nil, err
	}
	repo := sqlite.NewTransferRepo(db)
	return service.NewTransferService(repo, e.log,
		service.WithRetries(e.cfg.StoreRetries),
		service.WithBackoff(e.cfg.StoreBackoff),
	), nil
}

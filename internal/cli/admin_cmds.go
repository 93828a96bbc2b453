package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jrsteele09/go-portfolio-client/internal/output"
	"github.com/jrsteele09/go-portfolio-client/model"
	"github.com/spf13/cobra"
)

func newMessagesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "Read contact form messages (admin)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.init(); err != nil {
				return err
			}
			return a.requireLogin()
		},
	}

	var unread bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			messages, err := a.client.Messages(ctx)
			if err != nil {
				return err
			}
			t := output.NewTable(a.out, "ID", "From", "Subject", "Received", "Status")
			for _, m := range messages {
				if unread && m.IsRead {
					continue
				}
				t.AddRow(m.ID, fmt.Sprintf("%s <%s>", m.SenderName, m.SenderEmail),
					output.Truncate(m.Subject, 40), m.CreatedAt, a.printer.Badge(m.IsRead, "read", "unread"))
			}
			return renderTable(a, t, "No messages")
		},
	}
	list.Flags().BoolVar(&unread, "unread", false, "only unread messages")

	read := &cobra.Command{
		Use:   "read <id>",
		Short: "Show a message and mark it read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			m, err := a.client.MarkMessageRead(ctx, args[0])
			if err != nil {
				return notFound(err, "message", args[0])
			}
			a.printer.Header(m.Subject)
			a.printer.Field("From", fmt.Sprintf("%s <%s>", m.SenderName, m.SenderEmail))
			a.printer.Field("Received", m.CreatedAt)
			a.printer.Print("\n%s", m.Message)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := a.client.DeleteMessage(ctx, args[0]); err != nil {
				return notFound(err, "message", args[0])
			}
			a.printer.Success("Deleted message %s", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, read, del)
	return cmd
}

func newContactCmd(a *app) *cobra.Command {
	var req model.ContactRequest
	cmd := &cobra.Command{Use: "contact", Short: "Use the public contact form"}
	send := &cobra.Command{
		Use:   "send",
		Short: "Send a message through the contact form",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			m, err := a.client.SendMessage(ctx, req)
			if err != nil {
				return err
			}
			a.printer.Success("Message sent (%s)", m.ID)
			return nil
		},
	}
	send.Flags().StringVar(&req.SenderName, "name", "", "your name")
	send.Flags().StringVar(&req.SenderEmail, "email", "", "your email address")
	send.Flags().StringVar(&req.Subject, "subject", "", "message subject")
	send.Flags().StringVar(&req.Message, "message", "", "message body")
	_ = send.MarkFlagRequired("name")
	_ = send.MarkFlagRequired("email")
	_ = send.MarkFlagRequired("message")
	cmd.AddCommand(send)
	return cmd
}

func newResumeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "resume", Short: "Manage the CV"}

	info := &cobra.Command{
		Use:   "info",
		Short: "Show the active CV",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			meta, err := a.client.ResumeMetadata(ctx)
			if err != nil {
				return err
			}
			if meta == nil {
				a.printer.Info("No active CV")
				return nil
			}
			a.printer.Field("File", meta.FileName)
			a.printer.Field("Size", strconv.FormatInt(meta.FileSize, 10)+" bytes")
			a.printer.Field("Uploaded", meta.UploadedAt)
			a.printer.Field("By", meta.UploadedBy)
			a.printer.Field("Download", a.client.ResumeDownloadURL())
			return nil
		},
	}

	upload := &cobra.Command{
		Use:   "upload <file.pdf>",
		Short: "Upload a new CV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			ctx, cancel := a.context(cmd)
			defer cancel()
			res, err := a.client.UploadResume(ctx, filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			a.printer.Success("Uploaded %s", res.FileName)
			a.printer.Field("Download", res.DownloadURL)
			return nil
		},
	}

	var outPath string
	download := &cobra.Command{
		Use:   "download",
		Short: "Download the public CV",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			data, name, err := a.client.DownloadResume(ctx)
			if err != nil {
				return notFound(err, "CV", "active")
			}
			target := outPath
			if target == "" {
				target = name
			}
			if target == "" {
				target = "resume.pdf"
			}
			if err := os.WriteFile(target, data, 0o644); err != nil {
				return err
			}
			a.printer.Success("Saved %s (%d bytes)", target, len(data))
			return nil
		},
	}
	download.Flags().StringVarP(&outPath, "output", "o", "", "where to save the file (default: server file name)")

	del := &cobra.Command{
		Use:   "delete",
		Short: "Remove the active CV",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := a.client.DeleteResume(ctx); err != nil {
				return notFound(err, "CV", "active")
			}
			a.printer.Success("CV removed")
			return nil
		},
	}

	cmd.AddCommand(info, upload, download, del)
	return cmd
}

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show site statistics and unread messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			ov, err := a.client.Overview(ctx)
			if err != nil {
				return err
			}
			if ov.Profile != nil {
				a.printer.Header(ov.Profile.Headline)
			}
			s := ov.Stats
			t := output.NewTable(a.out, "Projects", "Posts", "Education", "Views", "Downloads", "Unread")
			t.AddRow(itoa(s.Projects), itoa(s.Blogs), itoa(s.Education), itoa(s.Views), itoa(s.Downloads), itoa(s.UnreadMessages))
			if err := t.Render(); err != nil {
				return err
			}
			unread := 0
			for _, m := range ov.Messages {
				if !m.IsRead {
					unread++
					a.printer.Print("  %s  %s <%s>  %s", m.ID, m.SenderName, m.SenderEmail, output.Truncate(m.Subject, 40))
				}
			}
			if unread == 0 {
				a.printer.Info("No unread messages")
			}
			return nil
		},
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

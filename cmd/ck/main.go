package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/devbyharshit/collab-khata/internal/config"
	"github.com/devbyharshit/collab-khata/internal/db"
	"github.com/devbyharshit/collab-khata/internal/domain"
	"github.com/devbyharshit/collab-khata/internal/engine"
	"github.com/devbyharshit/collab-khata/internal/migrate"
	"github.com/devbyharshit/collab-khata/internal/repo"
	"github.com/devbyharshit/collab-khata/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "ck",
	Short: "Collab Khata CLI",
	Long: `Collab Khata tracks brand collaborations for content creators: the deal
pipeline from first contact to payment, expected versus received money, and the
paper trail (conversations, contracts, invoices) around each deal.

The workspace keeps everything in .collabkhata/collabkhata.db; settings live in
collabkhata.yml next to it. Most commands act as one local user, selected with
--email.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initViper)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initViper() {
	viper.SetEnvPrefix("COLLABKHATA")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("email", "", "acting user's email")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("email", rootCmd.PersistentFlags().Lookup("email"))
}

func registerCommands() {
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(userCmd())
	rootCmd.AddCommand(brandCmd())
	rootCmd.AddCommand(collabCmd())
	rootCmd.AddCommand(paymentCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(convoCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(serveCmd())
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default collabkhata.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(viper.GetString("workspace"))
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	}
}

func userCmd() *cobra.Command {
	user := &cobra.Command{Use: "user", Short: "Manage users"}

	var email, password string
	register := &cobra.Command{
		Use:   "register",
		Short: "Register a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e engine.Engine) error {
				u, err := e.Register(ctx, email, password)
				if err != nil {
					return err
				}
				return printJSONOrTable(u)
			})
		},
	}
	register.Flags().StringVar(&email, "user-email", "", "email address")
	register.Flags().StringVar(&password, "password", "", "password (min 8 chars)")
	_ = register.MarkFlagRequired("user-email")
	_ = register.MarkFlagRequired("password")
	user.AddCommand(register)

	var keyName string
	apikey := &cobra.Command{
		Use:   "apikey",
		Short: "Issue an API key for the acting user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd.Context(), func(ctx context.Context, e engine.Engine, u domain.User) error {
				key, plaintext, err := e.IssueAPIKey(ctx, u.ID, keyName)
				if err != nil {
					return err
				}
				fmt.Println("api key (store it now, it is not shown again):", plaintext)
				return printJSONOrTable(key)
			})
		},
	}
	apikey.Flags().StringVar(&keyName, "name", "", "key label")
	user.AddCommand(apikey)

	return user
}

func brandCmd() *cobra.Command {
	brand := &cobra.Command{Use: "brand", Short: "Manage brands"}
	brand.AddCommand(brandCreateCmd())
	brand.AddCommand(brandListCmd())
	brand.AddCommand(brandShowCmd())
	brand.AddCommand(brandDeleteCmd())
	return brand
}

func brandCreateCmd() *cobra.Command {
	var name, contactName, contactEmail, contactChannel, notes string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create brand",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd.Context(), func(ctx context.Context, e engine.Engine, u domain.User) error {
				b, err := e.CreateBrand(ctx, engine.BrandCreateOptions{
					UserID:         u.ID,
					Name:           name,
					ContactName:    optional(contactName),
					ContactEmail:   optional(contactEmail),
					ContactChannel: optional(contactChannel),
					Notes:          optional(notes),
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(b)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "brand name")
	cmd.Flags().StringVar(&contactName, "contact-name", "", "contact person")
	cmd.Flags().StringVar(&contactEmail, "contact-email", "", "contact email")
	cmd.Flags().StringVar(&contactChannel, "contact-channel", "", "preferred channel")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func brandListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List brands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd.Context(), func(ctx context.Context, e engine.Engine, u domain.User) error {
				brands, err := e.ListBrands(ctx, u.ID, limit, "", "")
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(brands)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Contact", "Email"})
				for _, b := range brands {
					tw.AppendRow(table.Row{b.ID, b.Name, deref(b.ContactName), deref(b.ContactEmail)})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "max rows")
	return cmd
}

func brandShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <brand-id>",
		Short: "Show a brand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd.Context(), func(ctx context.Context, e engine.Engine, u domain.User) error {
				b, err := e.GetBrand(ctx, u.ID, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(b)
			})
		},
	}
	return cmd
}

func brandDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <brand-id>",
		Short: "Delete a brand with no collaborations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd.Context(), func(ctx context.Context, e engine.Engine, u domain.User) error {
				return e.DeleteBrand(ctx, u.ID, args[0])
			})
		},
	}
	return cmd
}

func collabCmd() *cobra.Command {
	collab := &cobra.Command{Use: "collab", Short: "Manage collaborations"}
	collab.AddCommand(collabCreateCmd())
	collab.AddCommand(collabListCmd())
	collab.AddCommand(collabShowCmd())
	collab.AddCommand(collabStatusCmd())
	return collab
}

func collabCreateCmd() *cobra.Command {
	var brandID, title, platform, deliverables, amount, currency, deadline, posting string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create collaboration (starts as Lead)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd.Context(), func(ctx context.Context, e engine.Engine, u domain.User) error {
				c, err := e.CreateCollaboration(ctx, engine.CollaborationCreateOptions{
					UserID:           u.ID,
					BrandID:          brandID,
					Title:            title,
					Platform:         platform,
					DeliverablesText: optional(deliverables),
					AgreedAmount:     optional(amount),
					Currency:         currency,
					DeadlineDate:     optional(deadline),
					PostingDate:      optional(posting),
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(c)
			})
		},
	}
	cmd.Flags().StringVar(&brandID, "brand", "", "brand id")
	cmd.Flags().StringVar(&title, "title", "", "title")
	cmd.Flags().StringVar(&platform, "platform", "", "platform (Instagram, YouTube, ...)")
	cmd.Flags().StringVar(&deliverables, "deliverables", "", "deliverables text")
	cmd.Flags().StringVar(&amount, "amount", "", "agreed amount")
	cmd.Flags().StringVar(&currency, "currency", "", "currency code (default from config)")
	cmd.Flags().StringVar(&deadline, "deadline", "", "deadline date YYYY-MM-DD")
	cmd.Flags().StringVar(&posting, "posting-date", "", "posting date YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("brand")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("platform")
	return cmd
}

func collabListCmd() *cobra.Command {
	var status, brandID, platform string
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List collaborations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd.Context(), func(ctx context.Context, e engine.Engine, u domain.User) error {
				collabs, err := e.ListCollaborations(ctx, repo.CollaborationFilters{
					UserID:   u.ID,
					BrandID:  brandID,
					Status:   status,
					Platform: platform,
					Limit:    limit,
				})
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(collabs)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Title", "Platform", "Status", "Amount", "Deadline"})
				for _, c := range collabs {
					amount := ""
					if c.AgreedAmount != nil {
						amount = c.AgreedAmount.String() + " " + c.Currency
					}
					tw.AppendRow(table.Row{c.ID, c.Title, c.Platform, c.Status, amount, deref(c.DeadlineDate)})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "status filter")
	cmd.Flags().StringVar(&brandID, "brand", "", "brand filter")
	cmd.Flags().StringVar(&platform, "platform", "", "platform filter")
	cmd.Flags().IntVar(&limit, "limit", 50, "max rows")
	return cmd
}

func collabShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <collab-id>",
		Short: "Show a collaboration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd.Context(), func(ctx context.Context, e engine.Engine, u domain.User) error {
				c, err := e.GetCollaboration(ctx, u.ID, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(c)
			})
		},
	}
	return cmd
}

func collabStatusCmd() *cobra.Command {
	var posting string
	cmd := &cobra.Command{
		Use:   "status <collab-id> <target-status>",
		Short: "Transition collaboration status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd.Context(), func(ctx context.Context, e engine.Engine, u domain.User) error {
				c, err := e.ChangeCollaborationStatus(ctx, engine.StatusChangeOptions{
					UserID:      u.ID,
					ID:          args[0],
					Target:      domain.CollaborationStatus(args[1]),
					PostingDate: optional(posting),
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(c)
			})
		},
	}
	cmd.Flags().StringVar(&posting, "posting-date", "", "posting date YYYY-MM-DD (set with the transition)")
	return cmd
}

func paymentCmd() *cobra.Command {
	payment := &cobra.Command{Use: "payment", Short: "Track expected and received money"}
	payment.AddCommand(paymentExpectCmd())
	payment.AddCommand(paymentCreditCmd())
	payment.AddCommand(paymentListCmd())
	payment.AddCommand(paymentOverdueCmd())
	return payment
}

func paymentExpectCmd() *cobra.Command {
	var collabID, amount, promised, method, notes string
	cmd := &cobra.Command{
		Use:   "expect",
		Short: "Create a payment expectation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd.Context(), func(ctx context.Context, e engine.Engine, u domain.User) error {
				v, err := e.CreatePaymentExpectation(ctx, engine.PaymentExpectationCreateOptions{
					UserID:          u.ID,
					CollaborationID: collabID,
					ExpectedAmount:  amount,
					PromisedDate:    optional(promised),
					PaymentMethod:   optional(method),
					Notes:           optional(notes),
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(v)
			})
		},
	}
	cmd.Flags().StringVar(&collabID, "collab", "", "collaboration id")
	cmd.Flags().StringVar(&amount, "amount", "", "expected amount")
	cmd.Flags().StringVar(&promised, "promised-date", "", "promised date YYYY-MM-DD")
	cmd.Flags().StringVar(&method, "method", "", "payment method")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	_ = cmd.MarkFlagRequired("collab")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func paymentCreditCmd() *cobra.Command {
	var expectationID, amount, date, reference string
	cmd := &cobra.Command{
		Use:   "credit",
		Short: "Record money received against an expectation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd.Context(), func(ctx context.Context, e engine.Engine, u domain.User) error {
				v, err := e.AddPaymentCredit(ctx, engine.PaymentCreditOptions{
					UserID:        u.ID,
					ExpectationID: expectationID,
					Amount:        amount,
					CreditedDate:  date,
					ReferenceNote: optional(reference),
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(v)
			})
		},
	}
	cmd.Flags().StringVar(&expectationID, "expectation", "", "payment expectation id")
	cmd.Flags().StringVar(&amount, "amount", "", "credited amount")
	cmd.Flags().StringVar(&date, "date", "", "credited date YYYY-MM-DD")
	cmd.Flags().StringVar(&reference, "reference", "", "reference note (UTR etc.)")
	_ = cmd.MarkFlagRequired("expectation")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func paymentListCmd() *cobra.Command {
	var collabID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a collaboration's expectations with derived status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd.Context(), func(ctx context.Context, e engine.Engine, u domain.User) error {
				views, err := e.ListPaymentExpectations(ctx, u.ID, collabID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(views)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Expected", "Credited", "Balance", "Status", "Promised"})
				for _, v := range views {
					tw.AppendRow(table.Row{v.Expectation.ID, v.Expectation.ExpectedAmount.String(), v.CreditedTotal.String(), v.Balance.String(), v.Status, deref(v.Expectation.PromisedDate)})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&collabID, "collab", "", "collaboration id")
	_ = cmd.MarkFlagRequired("collab")
	return cmd
}

func paymentOverdueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "List overdue payments across all collaborations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd.Context(), func(ctx context.Context, e engine.Engine, u domain.User) error {
				overdue, err := e.ListOverduePayments(ctx, u.ID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(overdue)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Brand", "Collaboration", "Balance", "Promised", "Days Overdue"})
				for _, o := range overdue {
					tw.AppendRow(table.Row{o.BrandName, o.CollaborationTitle, o.Balance.String(), o.PromisedDate, o.DaysOverdue})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Financial summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd.Context(), func(ctx context.Context, e engine.Engine, u domain.User) error {
				s, err := e.DashboardSummary(ctx, u.ID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(s)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendRow(table.Row{"Total expected", s.TotalExpected.String()})
				tw.AppendRow(table.Row{"Total credited", s.TotalCredited.String()})
				tw.AppendRow(table.Row{"Total pending", s.TotalPending.String()})
				tw.AppendRow(table.Row{"Overdue count", s.OverdueCount})
				tw.AppendRow(table.Row{"Overdue amount", s.OverdueAmount.String()})
				tw.Render()
				tw = table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Status", "Count"})
				for _, status := range domain.CollaborationStatuses {
					tw.AppendRow(table.Row{status, s.StatusCounts[status]})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func convoCmd() *cobra.Command {
	convo := &cobra.Command{Use: "convo", Short: "Log brand conversations"}

	var collabID, channel, message string
	add := &cobra.Command{
		Use:   "add",
		Short: "Log a conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd.Context(), func(ctx context.Context, e engine.Engine, u domain.User) error {
				log, err := e.AddConversationLog(ctx, engine.ConversationLogOptions{
					UserID:          u.ID,
					CollaborationID: collabID,
					Channel:         domain.CommunicationChannel(channel),
					MessageText:     message,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(log)
			})
		},
	}
	add.Flags().StringVar(&collabID, "collab", "", "collaboration id")
	add.Flags().StringVar(&channel, "channel", "", "channel (Email, Instagram, WhatsApp, Phone, InPerson, Other)")
	add.Flags().StringVar(&message, "message", "", "what was said")
	_ = add.MarkFlagRequired("collab")
	_ = add.MarkFlagRequired("channel")
	_ = add.MarkFlagRequired("message")
	convo.AddCommand(add)

	var listCollabID string
	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List conversations for a collaboration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd.Context(), func(ctx context.Context, e engine.Engine, u domain.User) error {
				logs, err := e.ListConversationLogs(ctx, u.ID, listCollabID, limit, "", "")
				if err != nil {
					return err
				}
				return printJSONOrTable(logs)
			})
		},
	}
	list.Flags().StringVar(&listCollabID, "collab", "", "collaboration id")
	list.Flags().IntVar(&limit, "limit", 50, "max rows")
	_ = list.MarkFlagRequired("collab")
	convo.AddCommand(list)

	return convo
}

func logCmd() *cobra.Command {
	log := &cobra.Command{Use: "log", Short: "Event log"}
	var n int
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Tail events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUser(cmd.Context(), func(ctx context.Context, e engine.Engine, u domain.User) error {
				events, err := e.Repo.ListEvents(ctx, u.ID, n, 0)
				if err != nil {
					return err
				}
				return printJSONOrTable(events)
			})
		},
	}
	tail.Flags().IntVar(&n, "n", 20, "number of events")
	log.AddCommand(tail)
	return log
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			conn, err := db.Open(db.Config{Workspace: workspace})
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}
			cfg, err := config.LoadOptional(workspace)
			if err != nil {
				return err
			}
			e := engine.New(conn, cfg)
			authCfg := server.AuthConfig{
				JWTSecret:     os.Getenv("COLLABKHATA_JWT_SECRET"),
				TokenTTLHours: cfg.Auth.TokenTTLHours,
			}
			if authCfg.JWTSecret == "" {
				return fmt.Errorf("COLLABKHATA_JWT_SECRET is required for bearer auth")
			}
			handler, err := server.New(server.Config{Engine: e, BasePath: basePath, Auth: authCfg})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			fmt.Printf("Serving Collab Khata API on http://%s%s (OpenAPI at %s/openapi.json, Swagger UI at /docs)\n", addr, basePath, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/api", "API base path")
	return cmd
}

// --- helpers ---

func withEngine(ctx context.Context, fn func(context.Context, engine.Engine) error) error {
	workspace := viper.GetString("workspace")
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		return err
	}
	return fn(ctx, engine.New(conn, cfg))
}

func withUser(ctx context.Context, fn func(context.Context, engine.Engine, domain.User) error) error {
	email := viper.GetString("email")
	if email == "" {
		return fmt.Errorf("--email required (or COLLABKHATA_EMAIL)")
	}
	return withEngine(ctx, func(ctx context.Context, e engine.Engine) error {
		u, err := e.Repo.GetUserByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("user %s: %w", email, err)
		}
		return fn(ctx, e, u)
	})
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

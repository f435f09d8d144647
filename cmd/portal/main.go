package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fotosexpress/portal/internal/config"
	"github.com/fotosexpress/portal/internal/observability"
	"github.com/fotosexpress/portal/internal/portal"
)

// portalConfig is the resolved CLI configuration.
type portalConfig struct {
	APIURL         string
	Timeout        time.Duration
	UploadInterval time.Duration
	UploadStep     int
	PhotoBaseURL   string
	ProfilePath    string
	LogLevel       string
}

// app carries what every command needs once configuration is resolved.
type app struct {
	v        *viper.Viper
	cfg      portalConfig
	logger   *zap.Logger
	client   *portal.Client
	staff    *portal.StaffFlow
	profile  *portal.Profile
	redirect time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(newApp()).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, portal.Describe(err))
		os.Exit(1)
	}
}

func newApp() *app {
	return &app{v: viper.New(), redirect: portal.DefaultRedirectDelay}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "portal",
		Short:         "Fotos Express portal client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.client != nil {
				a.client.CloseIdleConnections()
			}
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	def := portal.DefaultUploadConfig()
	flags := root.PersistentFlags()
	flags.String("api-url", "http://localhost:8001/api", "base URL of the portal API")
	flags.Duration("timeout", portal.DefaultTimeout, "per-request timeout")
	flags.Duration("upload-interval", def.Interval, "delay between upload progress ticks")
	flags.Int("upload-step", def.Step, "percentage added per upload tick")
	flags.String("photo-base-url", def.PhotoBaseURL, "base URL of delivered photos")
	flags.String("profile", defaultProfilePath(), "file holding the staff session")
	flags.String("log-level", "warn", "log level")
	_ = a.v.BindPFlags(flags)

	a.v.SetEnvPrefix("PORTAL")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		newLookupCmd(a),
		newDeliverCmd(a),
		newApproveCmd(a),
		newRejectCmd(a),
		newValidateTokenCmd(a),
		newActivateCmd(a),
		newChangePasswordCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newDashboardCmd(a),
		newDeleteCmd(a),
		newAssignStaffCmd(a),
	)
	return root
}

func (a *app) init() error {
	a.cfg = loadConfig(a.v)

	logger, err := observability.NewLogger(config.LoggerConfig{Level: a.cfg.LogLevel, Output: "stderr", Format: "console"})
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	a.logger = logger

	a.client = portal.NewClient(a.cfg.APIURL, portal.WithTimeout(a.cfg.Timeout))
	a.staff = portal.NewStaffFlow(a.client, portal.NewFileProfileStore(a.cfg.ProfilePath))
	a.profile, err = a.staff.Resume()
	if err != nil {
		a.logger.Warn("stored session unreadable", zap.String("path", a.cfg.ProfilePath), zap.Error(err))
	}
	return nil
}

func loadConfig(v *viper.Viper) portalConfig {
	return portalConfig{
		APIURL:         strings.TrimRight(v.GetString("api-url"), "/"),
		Timeout:        v.GetDuration("timeout"),
		UploadInterval: v.GetDuration("upload-interval"),
		UploadStep:     v.GetInt("upload-step"),
		PhotoBaseURL:   v.GetString("photo-base-url"),
		ProfilePath:    v.GetString("profile"),
		LogLevel:       v.GetString("log-level"),
	}
}

func (a *app) uploadConfig() portal.UploadConfig {
	return portal.UploadConfig{
		Interval:     a.cfg.UploadInterval,
		Step:         a.cfg.UploadStep,
		PhotoBaseURL: a.cfg.PhotoBaseURL,
	}
}

func defaultProfilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return dir + string(os.PathSeparator) + "fotosexpress" + string(os.PathSeparator) + "profile.json"
}

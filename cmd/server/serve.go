package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"restoivr/internal/api"
	"restoivr/internal/config"
	"restoivr/internal/dialogue"
	"restoivr/internal/knowledge"
	"restoivr/internal/migrate"
	"restoivr/internal/repository"
	"restoivr/internal/service"
	"restoivr/internal/session"
)

func newServeCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Twilio webhooks, the admin API and the background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.RequireDatabase(); err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			d, err := openDB(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer d.Close()

			if migrateUp {
				n, err := migrate.Up(ctx, d)
				if err != nil {
					return err
				}
				log.Printf("Applied %d migration(s)", n)
			}

			kb := knowledge.Default()
			if cfg.KnowledgePath != "" {
				if kb, err = knowledge.Load(cfg.KnowledgePath); err != nil {
					return err
				}
			}

			sessions, err := openSessionStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer sessions.Close()

			sender, err := newSender(cfg)
			if err != nil {
				return err
			}

			reservationRepo := repository.NewReservationRepository(d, cfg.DefaultCapacity)
			reservations := service.NewReservationService(reservationRepo, sender, kb.Name, cfg.BackendTimeout)
			admin := service.NewAdminService(repository.NewAdminRepository(d), reservationRepo, cfg.DefaultCapacity)
			adminAuth := service.NewAdminAuthService(repository.NewAdminAuthRepository(d), cfg.JWTSecret)

			understander, err := newUnderstander(ctx, cfg, kb)
			if err != nil {
				return err
			}
			engine := dialogue.NewEngine(understander, reservations, dialogue.Options{
				MaxRetries:    cfg.MaxRetries,
				RequirePhone:  cfg.RequirePhone,
				MixedDispatch: cfg.MixedDispatch,
				Location:      loc,
			})
			controller := dialogue.NewController(sessions, engine, understander, kb)

			jobs := service.NewJobService(repository.NewJobRepository(d), sessions, loc)
			if err := jobs.Start(); err != nil {
				return err
			}

			handler := api.NewRouter(api.RouterConfig{
				Voice:             api.NewVoiceHandler(controller),
				Health:            api.NewHealthHandler(sessions, reservations),
				Admin:             api.NewAdminHandler(admin),
				AdminAuth:         api.NewAdminAuthHandler(adminAuth),
				Tokens:            adminAuth,
				ValidateSignature: cfg.ValidateTwilioSignature,
				TwilioAuthToken:   cfg.TwilioAuthToken,
				PublicBaseURL:     cfg.PublicBaseURL,
				AdminRateLimit:    rate.Limit(cfg.RateLimitPerSec),
			})

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.Port),
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Printf("Server running on port %d", cfg.Port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case <-ctx.Done():
				log.Println("Received shutdown signal...")
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server error: %w", err)
				}
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("Server shutdown error: %v", err)
			}
			<-jobs.Stop().Done()
			sender.Wait()
			log.Println("Server stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")
	cmd.Flags().Lookup("migrate").NoOptDefVal = "true"
	return cmd
}

// openSessionStore keeps sessions in process memory unless redis is
// configured, in which case redis must be reachable.
func openSessionStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	if cfg.SessionBackend != config.SessionRedis {
		return session.NewMemoryStore(cfg.SessionIdleTimeout), nil
	}
	store, err := session.NewRedisStore(ctx, cfg.RedisURL, cfg.RedisPassword, cfg.SessionIdleTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to open redis session store: %w", err)
	}
	log.Println("Call sessions stored in redis")
	return store, nil
}

func newSender(cfg *config.Config) (*service.SenderService, error) {
	var sms service.SMSSender
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioFromNumber != "" {
		sms = service.NewTwilioSMS(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	} else {
		log.Println("Twilio REST credentials missing, confirmation SMS disabled")
	}

	var mail service.MailSender
	if cfg.SendGridAPIKey != "" && cfg.SendGridFromEmail != "" {
		mail = service.NewSendGridMail(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName)
	} else {
		log.Println("SendGrid not configured, staff emails disabled")
	}

	return service.NewSenderService(sms, mail, cfg.StaffEmail)
}

func newUnderstander(ctx context.Context, cfg *config.Config, kb *knowledge.Base) (dialogue.Understander, error) {
	if cfg.NLUBackend == config.NLUGemini {
		g, err := dialogue.NewGeminiUnderstander(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.NLUTimeout, kb, cfg.MaxPartySize)
		if err != nil {
			return nil, err
		}
		log.Printf("Using Gemini model %s to understand callers", cfg.GeminiModel)
		return g, nil
	}
	return dialogue.NewRuleUnderstander(kb, cfg.MaxPartySize), nil
}

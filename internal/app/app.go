// Package app wires configuration, stores and identity into the notes
// dispatcher and adapts it to the Lambda runtime.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/A-W-S-G-I-T/notes-api/internal/auth"
	"github.com/A-W-S-G-I-T/notes-api/internal/config"
	"github.com/A-W-S-G-I-T/notes-api/internal/crypto"
	"github.com/A-W-S-G-I-T/notes-api/internal/gateway"
	"github.com/A-W-S-G-I-T/notes-api/internal/handler"
	"github.com/A-W-S-G-I-T/notes-api/internal/logger"
	"github.com/A-W-S-G-I-T/notes-api/internal/secret"
	"github.com/A-W-S-G-I-T/notes-api/internal/store"
	"github.com/A-W-S-G-I-T/notes-api/internal/store/dynamo"
	"github.com/A-W-S-G-I-T/notes-api/internal/store/memory"
	"github.com/A-W-S-G-I-T/notes-api/internal/store/sealed"
)

// App holds the dependencies for the Lambda function.
type App struct {
	notes *handler.NoteHandler
	log   *slog.Logger
}

// New builds an App around an already configured handler.
func New(h *handler.NoteHandler, log *slog.Logger) *App {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &App{notes: h, log: log}
}

// NewApp initializes the application dependencies from cfg. AWS
// configuration is only loaded when a component needs it.
func NewApp(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var awsCfg *aws.Config
	loadAWS := func() (aws.Config, error) {
		if awsCfg != nil {
			return *awsCfg, nil
		}
		c, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return aws.Config{}, fmt.Errorf("load aws config: %w", err)
		}
		awsCfg = &c
		return c, nil
	}

	s, err := newStore(cfg, loadAWS, log)
	if err != nil {
		return nil, err
	}

	identity, err := newIdentity(ctx, cfg, loadAWS, log)
	if err != nil {
		return nil, err
	}

	return New(handler.NewNoteHandler(s, identity, handler.WithLogger(log)), log), nil
}

func newStore(cfg config.Config, loadAWS func() (aws.Config, error), log *slog.Logger) (store.Store, error) {
	var s store.Store
	switch cfg.Store.Backend {
	case config.BackendMemory:
		s = memory.NewStore()
		log.Info("using in-memory store")
	case config.BackendDynamoDB:
		c, err := loadAWS()
		if err != nil {
			return nil, err
		}
		s = dynamo.NewStore(dynamodb.NewFromConfig(c), cfg.Store.Table)
		log.Info("using dynamodb store", slog.String("table", cfg.Store.Table))
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	if cfg.Store.KMSKeyID == "" {
		return s, nil
	}

	var enc crypto.Encryptor
	if cfg.DevMode {
		enc = crypto.NewMockEncryptor()
		log.Info("using mock encryptor", slog.Bool("dev_mode", true))
	} else {
		c, err := loadAWS()
		if err != nil {
			return nil, err
		}
		enc = crypto.NewKMSService(kms.NewFromConfig(c), cfg.Store.KMSKeyID)
		log.Info("encrypting note text with kms", slog.String("key_id", cfg.Store.KMSKeyID))
	}
	return sealed.New(s, enc), nil
}

// newIdentity always trusts authorizer claims. Bearer tokens are accepted
// too once the signing secret resolves; a missing secret only disables them.
func newIdentity(ctx context.Context, cfg config.Config, loadAWS func() (aws.Config, error), log *slog.Logger) (auth.Extractor, error) {
	chain := auth.Chain{auth.ClaimsExtractor{}}
	if cfg.Auth.JWTSecretParam == "" {
		return chain, nil
	}

	var resolver secret.Resolver
	if cfg.DevMode {
		resolver = secret.NewEnvResolver()
	} else {
		c, err := loadAWS()
		if err != nil {
			return nil, err
		}
		resolver = secret.NewSSMResolver(ssm.NewFromConfig(c))
	}

	jwtSecret, err := secret.Retrying(resolver, cfg.Secrets.Attempts, cfg.Secrets.Delay, log).
		GetSecret(ctx, cfg.Auth.JWTSecretParam)
	if err != nil {
		log.Warn("bearer tokens disabled", logger.Err(err))
		return chain, nil
	}

	return append(chain, auth.NewBearerExtractor(jwtSecret)), nil
}

// HandleRequest is the Lambda entry point. It accepts REST API and HTTP API
// proxy events alike. Errors are returned to the runtime.
func (a *App) HandleRequest(ctx context.Context, raw json.RawMessage) (events.APIGatewayProxyResponse, error) {
	start := time.Now()

	req, err := gateway.Decode(raw)
	if err != nil {
		a.log.ErrorContext(ctx, "failed to decode event", requestID(ctx), logger.Err(err))
		return events.APIGatewayProxyResponse{}, err
	}
	return a.serve(ctx, req, start)
}

// HandleProxyRequest serves a typed REST API event, as the local server builds.
func (a *App) HandleProxyRequest(ctx context.Context, ev events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	start := time.Now()

	req, err := gateway.FromProxyRequest(ev)
	if err != nil {
		a.log.ErrorContext(ctx, "failed to decode request", requestID(ctx), logger.Err(err))
		return events.APIGatewayProxyResponse{}, err
	}
	return a.serve(ctx, req, start)
}

func (a *App) serve(ctx context.Context, req handler.Request, start time.Time) (events.APIGatewayProxyResponse, error) {
	method := slog.String("method", req.Method)

	resp, err := a.notes.Handle(ctx, req)
	if err != nil {
		a.log.ErrorContext(ctx, "finish with error",
			method,
			slog.Duration("duration", time.Since(start)),
			requestID(ctx),
			logger.Err(err),
		)
		return events.APIGatewayProxyResponse{}, err
	}

	out, err := gateway.Encode(resp)
	if err != nil {
		a.log.ErrorContext(ctx, "failed to encode response", method, requestID(ctx), logger.Err(err))
		return events.APIGatewayProxyResponse{}, err
	}

	a.log.InfoContext(ctx, "finish success",
		method,
		slog.Int("status", out.StatusCode),
		slog.Duration("duration", time.Since(start)),
		requestID(ctx),
	)
	return out, nil
}

func requestID(ctx context.Context) slog.Attr {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return slog.String("request_id", lc.AwsRequestID)
	}
	return slog.String("request_id", "")
}

package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/docker/go-units"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2/google"

	"cognidoc-backend/internal/documents"
	"cognidoc-backend/internal/extract"
	"cognidoc-backend/internal/llm"
	"cognidoc-backend/internal/llm/gemini"
	"cognidoc-backend/internal/llm/openai"
	"cognidoc-backend/internal/llm/vertex"
	"cognidoc-backend/internal/search"
	"cognidoc-backend/internal/services/health"
	"cognidoc-backend/internal/shared/config"
	"cognidoc-backend/internal/shared/gcp"
	"cognidoc-backend/internal/shared/server"
	"cognidoc-backend/internal/shared/storage/object"
	gcsstore "cognidoc-backend/internal/shared/storage/object/gcs"
	localstore "cognidoc-backend/internal/shared/storage/object/local"
	s3store "cognidoc-backend/internal/shared/storage/object/s3"
	"cognidoc-backend/internal/shared/telemetry"
	"cognidoc-backend/internal/uploads"
)

// App holds shared dependencies and the router built from them.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	Extractor        extract.Client
	Answerer         llm.Answerer
	Search           search.Answerer
	Store            object.ObjectStore
	DocumentsService *documents.Service
	UploadsService   *uploads.Service

	closers []func() error
}

// Build constructs every upstream client once and wires the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg}

	creds := &lazyCredentials{ctx: ctx}
	var err error

	if app.Extractor, err = app.buildExtractor(ctx, cfg, creds); err != nil {
		return nil, app.fail(err)
	}
	if app.Answerer, err = app.buildAnswerer(ctx, cfg, creds); err != nil {
		return nil, app.fail(err)
	}
	if app.Search, err = app.buildSearch(ctx, cfg, creds); err != nil {
		return nil, app.fail(err)
	}
	if app.Store, err = app.buildStore(ctx, cfg, creds); err != nil {
		return nil, app.fail(err)
	}

	app.DocumentsService = &documents.Service{
		Extractor: app.Extractor,
		Answerer:  app.Answerer,
		Store:     app.Search,
	}
	app.UploadsService = &uploads.Service{
		Store:       app.Store,
		Destination: cfg.UploadDestination(),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Health:          health.NewService(),
		DocumentHandler: documents.NewHandler(app.DocumentsService, cfg.MaxUploadBytes),
		UploadHandler:   uploads.NewHandler(app.UploadsService, cfg.MaxUploadBytes),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"extractor":    cfg.DocumentExtractor,
		"llm_provider": cfg.LLMProvider,
		"llm_model":    cfg.LLMModel,
		"object_store": cfg.ObjectStoreType,
		"search_app":   cfg.SearchAppID,
		"upload_dest":  cfg.UploadDestination(),
		"max_upload":   units.BytesSize(float64(cfg.MaxUploadBytes)),
	})
	return app, nil
}

// Close releases every SDK client in reverse construction order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) fail(err error) error {
	if closeErr := a.Close(); closeErr != nil {
		return errors.Join(err, closeErr)
	}
	return err
}

func (a *App) buildExtractor(ctx context.Context, cfg config.Config, creds *lazyCredentials) (extract.Client, error) {
	if cfg.DocumentExtractor == config.ExtractorLocal {
		return extract.Local{}, nil
	}
	c, err := creds.get()
	if err != nil {
		return nil, err
	}
	opts := gcp.ClientOptions(c, gcp.RegionalEndpoint("documentai", cfg.DocAILocation))
	client, err := extract.NewDocumentAI(ctx, cfg.ProjectID, cfg.DocAILocation, cfg.DocAIProcessorID, opts...)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)
	return client, nil
}

func (a *App) buildAnswerer(ctx context.Context, cfg config.Config, creds *lazyCredentials) (llm.Answerer, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderGemini:
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return client, nil
	default:
		c, err := creds.get()
		if err != nil {
			return nil, err
		}
		client, err := vertex.NewClient(ctx, cfg.ProjectID, cfg.VertexLocation, cfg.LLMModel, gcp.ClientOptions(c, "")...)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return client, nil
	}
}

func (a *App) buildSearch(ctx context.Context, cfg config.Config, creds *lazyCredentials) (search.Answerer, error) {
	c, err := creds.get()
	if err != nil {
		return nil, err
	}
	opts := gcp.ClientOptions(c, gcp.RegionalEndpoint("discoveryengine", cfg.SearchAppLocation))
	client, err := search.NewDiscoveryEngine(ctx, cfg.ProjectID, cfg.SearchAppLocation, cfg.SearchAppID, opts...)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)
	return client, nil
}

// buildStore returns nil when the destination is unset; the upload endpoint reports that.
func (a *App) buildStore(ctx context.Context, cfg config.Config, creds *lazyCredentials) (object.ObjectStore, error) {
	if config.IsPlaceholder(cfg.UploadDestination()) {
		telemetry.Warn("bootstrap.upload_destination_unset", map[string]any{"object_store": cfg.ObjectStoreType})
		return nil, nil
	}
	switch cfg.ObjectStoreType {
	case config.StoreLocal:
		return localstore.New(cfg.LocalStoreDir), nil
	case config.StoreS3:
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.Bucket)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		c, err := creds.get()
		if err != nil {
			return nil, err
		}
		store, err := gcsstore.New(ctx, cfg.Bucket, gcp.ClientOptions(c, "")...)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	}
}

// lazyCredentials resolves Application Default Credentials on first use so deployments
// that only use API-key or local backends never need them.
type lazyCredentials struct {
	ctx   context.Context
	creds *google.Credentials
	err   error
	done  bool
}

func (l *lazyCredentials) get() (*google.Credentials, error) {
	if !l.done {
		l.creds, l.err = gcp.Credentials(l.ctx)
		l.done = true
	}
	if l.err != nil {
		return nil, fmt.Errorf("google credentials: %w", l.err)
	}
	return l.creds, nil
}

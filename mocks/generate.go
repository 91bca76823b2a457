package mocks

//go:generate mockgen -destination=./mock_market_generator.go -package=mocks github.com/rxtech-lab/argo-core/internal/feed MarketGenerator
//go:generate mockgen -destination=./mock_signal_generator.go -package=mocks github.com/rxtech-lab/argo-core/internal/strategy SignalGenerator
//go:generate mockgen -destination=./mock_execution_client.go -package=mocks github.com/rxtech-lab/argo-core/internal/execution ExecutionClient
//go:generate mockgen -destination=./mock_journal.go -package=mocks github.com/rxtech-lab/argo-core/internal/portfolio/repository Journal
//go:generate mockgen -destination=./mock_portfolio_manager.go -package=mocks github.com/rxtech-lab/argo-core/internal/portfolio Manager

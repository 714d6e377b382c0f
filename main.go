// Йоу, чат! Сьогодні ми будемо розбирати як запустити сервер для будівництва!
// Це ліцензія AGPL - означає що наш код має бути відкритим, і всі модифікації теж.
// Це важливо для спільноти, щоб всі могли вчитися і покращувати код!

// Пакет main - це точка входу нашої програми, звідси все починається!
package main

import (
	"context"
	"errors"
	// flag - це пакет для роботи з командним рядком, будемо використовувати для налаштувань
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	// debug дозволяє отримати інформацію про збірку програми
	"runtime/debug"
	// strings потрібен для роботи з текстом, будемо використовувати для форматування помилок
	"strings"
	"syscall"
	"time"

	// toml - крутий формат для конфігів, як JSON але читабельніший
	"github.com/BurntSushi/toml"
	// promhttp віддає метрики для Prometheus
	"github.com/prometheus/client_golang/prometheus/promhttp"
	// zap - мегашвидкий логер, набагато швидший за fmt.Printf
	"go.uber.org/zap"

	"fcraft/blockdb"
	// Імпортуємо наше ігрове ядро - тут вся магія відбувається!
	"fcraft/game"
	"fcraft/scheduler"
)

var (
	// isDebug - флаг який можна включити при запуску через -debug
	// В дебаг режимі буде більше логів і інформації для розробки
	isDebug    = flag.Bool("debug", false, "Enable debug log output")
	configPath = flag.String("config", "config.toml", "Path to the config file")
	noConsole  = flag.Bool("no-console", false, "Do not read commands from stdin")
)

func main() {
	// Парсимо командний рядок
	flag.Parse()

	// Створюємо логер - він буде записувати все що відбувається на сервері
	var logger *zap.Logger
	if *isDebug {
		logger = unwrap(zap.NewDevelopment())
	} else {
		logger = unwrap(zap.NewProduction())
	}

	// Тут ми закриваємо логер, щоб всі логи записались на диск
	defer func(logger *zap.Logger) {
		// stdout/stderr не вміють fsync, на це не зважаємо
		_ = logger.Sync()
	}(logger)

	logger.Info("Server start")
	printBuildInfo(logger)
	defer logger.Info("Server exit")

	// Читаємо налаштування з файлу config.toml
	config, err := readConfig(*configPath)
	if err != nil {
		logger.Error("Read config fail", zap.Error(err))
		return
	}

	// Сервер живе поки не прийде Ctrl+C або SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// BlockDB - журнал усіх змін блоків для /undoplayer і /undoarea
	db := blockdb.Disabled()
	if config.BlockDB.Enabled {
		db, err = blockdb.Open(logger.Named("blockdb"), config.BlockDB.Path, config.BlockDB.InMemory)
		if err != nil {
			logger.Error("Open BlockDB fail", zap.Error(err))
			return
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("Close BlockDB fail", zap.Error(err))
			}
		}()
		go db.Run(ctx, config.BlockDB.FlushInterval.Duration)
	}

	// Головний контекст: тут виконуються всі команди
	sched := scheduler.New(logger.Named("scheduler"))
	go sched.Run(ctx)

	g, err := game.NewGame(logger, config, sched, db)
	if err != nil {
		logger.Error("Init game fail", zap.Error(err))
		return
	}
	gameDone := make(chan struct{})
	go func() {
		defer close(gameDone)
		g.Run(ctx)
	}()

	if config.MetricsAddress != "" {
		go serveMetrics(ctx, logger, config.MetricsAddress)
	}
	if !*noConsole {
		go g.AcceptConsole(stdio{}, "console")
	}
	if config.ListenAddress != "" {
		go listen(ctx, logger, config.ListenAddress, g)
	}

	<-ctx.Done()
	logger.Info("Shutting down")
	// Чекаємо збереження карти і фонові задачі
	<-gameDone
	sched.Wait()
}

// listen приймає TCP клієнтів поки не скасують ctx
func listen(ctx context.Context, logger *zap.Logger, addr string, g *game.Game) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("Listen fail", zap.String("address", addr), zap.Error(err))
		return
	}
	logger.Info("Start listening", zap.String("address", addr))
	go func() {
		<-ctx.Done()
		_ = l.Close()
	}()
	for {
		conn, err := l.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				logger.Error("Accept error", zap.Error(err))
			}
			return
		}
		go g.AcceptConn(conn)
	}
}

// serveMetrics віддає /metrics для Prometheus
func serveMetrics(ctx context.Context, logger *zap.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	logger.Info("Metrics listening", zap.String("address", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Metrics server error", zap.Error(err))
	}
}

// stdio - консоль сервера як з'єднання
type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdio) Close() error                { return nil }

// printBuildInfo виводить інформацію про збірку
// Це допомагає знайти проблеми з версіями бібліотек
func printBuildInfo(logger *zap.Logger) {
	binaryInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	settings := make(map[string]string)
	for _, v := range binaryInfo.Settings {
		settings[v.Key] = v.Value
	}
	logger.Debug("Build info", zap.Any("settings", settings))
}

// readConfig читає конфіг з файлу поверх стандартних налаштувань
// Якщо знайдемо невідомі налаштування - повернемо помилку
func readConfig(path string) (game.Config, error) {
	c := game.DefaultConfig()
	meta, err := toml.DecodeFile(path, &c)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	} else if err != nil {
		return game.Config{}, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		var err errUnknownConfig
		for _, key := range undecoded {
			err = append(err, key.String())
		}
		return game.Config{}, err
	}

	return c, nil
}

// errUnknownConfig - це список невідомих налаштувань
// Коли знаходимо щось чого не очікували в конфігу
type errUnknownConfig []string

func (e errUnknownConfig) Error() string {
	return "unknown config keys: [" + strings.Join(e, ", ") + "]"
}

// unwrap - хелпер функція яка спрощує обробку помилок
// Якщо є помилка - відразу панікуємо
func unwrap[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	. "github.com/datadeck/datadeck/src"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Println("❌ Invalid configuration:", err)
		os.Exit(1)
	}

	logger, err := NewLogger(cfg.LogFile, cfg.Debug)
	if err != nil {
		fmt.Println("❌ Failed to open log file:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	clientID := uuid.NewString()

	// History is best effort: a broken database degrades /history, not the
	// session.
	store, err := NewStore(cfg.HistoryDB)
	if err != nil {
		logger.Warn("history store unavailable", zap.Error(err))
		store = nil
	} else {
		defer store.Close()
	}

	conn, err := DialBackend(cfg.SocketURL(clientID), logger)
	if err != nil {
		fmt.Println("❌ Cannot reach backend:", err)
		os.Exit(1)
	}
	defer conn.Close()

	ctrl := NewController(clientID, cfg.RootPath, store, logger)
	lister := NewHTTPLister(cfg.ListingURL)

	m := NewModel(cfg, ctrl, conn, lister, logger)
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.Program = p

	go conn.ReadPump(p.Send)

	if _, err := p.Run(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

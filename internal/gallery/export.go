package gallery

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Export writes assets to path as Parquet or JSONL, chosen by extension
func Export(path string, assets []Asset) error {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".parquet":
		return exportParquet(path, assets)
	case ".jsonl", ".json":
		return exportJSONL(path, assets)
	default:
		return fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", ext)
	}
}

// Load reads assets previously written by Export
func Load(path string) ([]Asset, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".parquet":
		return loadParquet(path)
	case ".jsonl", ".json":
		return loadJSONL(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", ext)
	}
}

func exportParquet(path string, assets []Asset) error {
	if err := parquet.WriteFile(path, assets); err != nil {
		return fmt.Errorf("failed to write parquet file: %w", err)
	}
	slog.Debug("Wrote parquet file", "path", path, "rows", len(assets))
	return nil
}

func exportJSONL(path string, assets []Asset) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for _, a := range assets {
		if err := enc.Encode(a); err != nil {
			return fmt.Errorf("failed to encode asset %s: %w", a.ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush file: %w", err)
	}
	slog.Debug("Wrote JSONL file", "path", path, "rows", len(assets))
	return nil
}

func loadParquet(path string) ([]Asset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Asset](pf)
	defer reader.Close()

	var assets []Asset
	rows := make([]Asset, 128)
	for {
		n, err := reader.Read(rows)
		assets = append(assets, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
	return assets, nil
}

func loadJSONL(path string) ([]Asset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var assets []Asset
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var a Asset
		if err := json.Unmarshal(line, &a); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		assets = append(assets, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return assets, nil
}

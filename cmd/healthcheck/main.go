// main.go
//
// Property catalog service for Sri Sai Ram Real Estate, derived from jam-build-propsdb
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of the Sri Sai Ram catalog service.
// The catalog service is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// The catalog service is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with the catalog service.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/config"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/database"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/logger"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/media"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/services"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// probe output must stay clean JSON
	zl := logger.NewNop()
	ctx := context.Background()

	// Connect to database (reader pool)
	readerDB, err := database.ConnectReader(cfg, zl)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(readerDB)

	backend, err := media.NewGCSBackend(ctx, media.GCSOptions{
		Bucket:       cfg.MediaBucket,
		EmulatorHost: cfg.StorageEmulatorHost,
	}, zl)
	if err != nil {
		log.Fatalf("Failed to create media backend: %v", err)
	}
	defer backend.Close()

	var cache *services.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer rdb.Close()
		cache = services.NewCache(rdb, cfg.CacheTTL, zl)
	}

	// Perform health check
	health := &services.Health{
		Config: cfg,
		DB:     readerDB,
		Media:  media.NewAdapter(backend, media.Options{Folder: cfg.MediaFolder}, zl),
		Cache:  cache,
		Log:    zl,
	}
	result := health.Check(ctx)

	// Output result as JSON
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}

	fmt.Println(string(output))

	// Exit with appropriate code
	if result.Status != "healthy" {
		os.Exit(1)
	}
	os.Exit(0)
}

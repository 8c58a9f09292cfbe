// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

// Package services provides suture.Service wrappers for components whose
// lifecycle is not already context-driven.
//
// HTTPServerService translates http.Server's ListenAndServe/Shutdown pair
// into suture's Serve(ctx) pattern. Each Serve call builds a fresh server,
// because an http.Server cannot be restarted after Shutdown.
//
// The request queue and the response cache implement suture.Service
// themselves and need no wrapper.
package services

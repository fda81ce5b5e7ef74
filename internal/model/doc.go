package model

// Package model defines domain data structures used across the app: posts,
// subreddits, comment trees, and the feed state enum. Structures are designed
// for direct rendering in the UI and explicit state transitions.

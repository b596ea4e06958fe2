// Package server implements an in-memory Diagnosis Service for development
// and tests.
//
// HTTP API (all routes require "Authorization: Bearer <token>"; unknown
// tokens get a fresh free account)
//
//	POST /api/diagnose           multipart field "image"
//	GET  /api/diagnoses          every diagnosis, newest first
//	GET  /api/diagnoses/recent   the newest RecentLimit diagnoses
//	POST /api/trial/start        start the free trial
//	GET  /api/subscription       plan, trial and usage
//
// Behaviour
//
//   - Free accounts get MonthlyLimit diagnoses per calendar month. Past the
//     limit, diagnose answers 403 MONTHLY_LIMIT_REACHED with canStartTrial
//     and trialUsed.
//   - A trial lasts TrialDays and lifts the limit. Starting it twice answers
//     403 TRIAL_ACTIVE with trialDaysLeft, or 403 TRIAL_USED once it ended.
//   - Uploads whose content is not an image answer 422 with a message the
//     client classifies as an invalid subject.
//   - The label is chosen from a small tomato, potato and pepper catalogue by
//     hashing the image bytes, so the same photo always gets the same answer.
//
// All state is held in memory and lost on process exit.
package server

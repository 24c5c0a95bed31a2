// Moyuban - Desktop Progress Bar with Contextual Danmaku
// Copyright 2026 Moyuban Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moyuban/moyuban

/*
Package templates turns queued danmaku events into display text.

A bank maps category -> tone -> template strings. The default bank is
embedded; an operator file can replace it, and a failed reload keeps
the previous bank. Placeholders use single braces ({domain},
{duration_min}) and are validated against the closed context schema at
load time, so a bank that parses is a bank that renders.

Selection is uniform random within (category, tone). When a category
carries no templates for the requested tone the store falls back to a
random tone the category does have, logging the substitution.
*/
package templates

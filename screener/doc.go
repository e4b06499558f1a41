// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

/*
Package screener performs deterministic pre-publication and pre-install
risk detection over skill content.

The screener is two layers. The first is a set of deterministic lint
checks: a data-driven pattern library scanned per line and against
whitespace-normalized whole files, a scope check comparing what the
content dwells on against what the manifest declares, structural and
naming rules, and a scan for Unicode-level concealment (tag characters,
zero-width characters, Cyrillic homoglyphs). The second layer is review:
a fixed eight-category rubric, a context builder that packages skill
content as data for an external review agent behind a sentinel marker,
and a packaged pattern detector that scores content against the rubric
directly.

The self-test harness measures any Detector against a packaged corpus of
graded adversarial cases. Tier 1 cases are obvious and must all be
caught; tier 2 cases are concealed and at least 80% must be caught;
tier 3 cases are sophisticated and aspirational.

Nothing in this package interprets or executes skill content.
*/
package screener

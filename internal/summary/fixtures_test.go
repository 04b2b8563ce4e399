package summary

const firstPart = `Here is your summary.

## Executive Overview
Overview from part one.

## Introduction
Intro one.

## Chapter-by-Chapter Summary
### Chapter 1: Origins
Text A.

### Chapter 2: Growth
Text B.

## Key Concepts and Definitions
- **Flywheel**: a self-reinforcing loop.

## Key Takeaways
1. Consistency beats intensity.
2. Start small.

## Memorable Quotations
- "Start before you are ready."

## Practical Applications
Apply A.

## Critical Analysis
Critique A.

## Further Reading
- Atomic Habits by James Clear

## Conclusion
Premature conclusion from part one.
`

const middlePart = `**Executive Overview**
Overview restated in part two.

**Chapter-by-Chapter Summary**
**Chapter 1: Setbacks**
Text C.

KEY TAKEAWAYS:
1. Consistency beats intensity!
2. Rest is part of the work.
3. Start small

**Key Concepts and Definitions**
- Flywheel - a loop where each push adds momentum.
- Deliberate practice: focused effort on weaknesses.

**Memorable Quotations**
- "Start before you're ready."
`

const lastPart = `# Chapter-by-Chapter Summary
## Chapter 1: Comeback
Text D.

## Key Takeaways
- Rest is part of the work
- Measure what matters.

## Practical Applications
Apply C.

## Conclusion
Final conclusion.

## Quick Bullet Summary (TL;DR)
- Be consistent.
`

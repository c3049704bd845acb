package mcpserver

// RecordFormatContract describes the canonical worklog record format that
// LLM consumers should follow when creating records.
const RecordFormatContract = `# Worklog Record Format Contract

Every worklog record stored by this tool follows this structure.

## Structure

` + "```" + `markdown
---
title: Human-readable title        # used on boards and in listings
tags:                               # OPTIONAL – YAML list
  - tag-one
  - tag-two
---

Body text in standard Markdown.
` + "```" + `

## Rules

1. **A record must carry a title.** Either the frontmatter ` + "`" + `title` + "`" + ` field or a
   first-level ` + "`" + `# Heading` + "`" + ` opening the body. A record with neither is treated
   as unreadable by board listings.
2. **Ids are assigned by the tool.** Records live under ` + "`" + `data/<id>.md` + "`" + ` where the
   id looks like ` + "`" + `a1b2-0065f3c2aa` + "`" + `; consumers never choose or rename ids.
3. **Board membership is not part of the record.** The boards (todo, doing, done)
   are pointer directories maintained by the ` + "`" + `move_worklog` + "`" + ` tool; a worklog is
   on exactly one board at a time.
4. **Tags** are lowercase, kebab-case (e.g. ` + "`" + `infra` + "`" + `, ` + "`" + `code-review` + "`" + `). They are
   kept in the record only; nothing indexes them.
5. **Encoding** is UTF-8 with a trailing newline.
6. **The body is otherwise free-form.** The tool never interprets it beyond the
   title and tags.

## Example

` + "```" + `markdown
---
title: Fix the nightly build
tags:
  - infra
---

# Fix the nightly build

The nightly job has been red since Tuesday. Suspect the cache key change.

- [ ] bisect the pipeline config
- [ ] add a canary stage
` + "```" + `
`

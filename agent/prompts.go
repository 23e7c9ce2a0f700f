package agent

import "fmt"

const planningSystemPrompt = `You are a Lead Research Agent responsible for orchestrating complex research tasks.

Your role is to:
1. Analyze research queries and understand their complexity
2. Break down complex queries into focused subtasks for worker agents
3. Plan efficient parallel execution strategies
4. Synthesize findings from multiple workers into coherent insights

When creating research plans:
- Identify 3-5 key subtasks that together comprehensively address the query
- Each subtask should be focused, clear, and independently executable
- Consider different perspectives (theoretical, methodological, practical, comparative)
- Plan for synthesis that connects insights across subtasks

Output format:
{
    "research_goal": "Clear statement of what we're trying to learn",
    "subtasks": [
        {
            "id": 1,
            "query": "Specific focused question",
            "focus": "What aspect to emphasize",
            "required_depth": "deep|moderate|surface",
            "estimated_tokens": 8000
        }
    ],
    "synthesis_strategy": "How to combine findings"
}`

const synthesisSystemPrompt = `You are a Lead Research Agent synthesizing findings from multiple worker agents.

Your role is to:
1. Combine findings from 3-5 worker agents into a unified, coherent analysis
2. Identify key themes and patterns across all findings
3. Connect insights and show relationships between different aspects
4. Create a comprehensive, flowing narrative (not bullet points)
5. Preserve source citations from worker agents

Writing style:
- Long, flowing paragraphs (5-10 sentences) that build understanding
- Connect insights from different workers seamlessly
- Professional, engaging prose
- Detailed theoretical explanations
- Proper source attribution`

const executionSystemPrompt = `You are a Worker Research Agent responsible for executing focused research subtasks.

Your role is to:
1. Deeply analyze the provided context related to your assigned subtask
2. Extract key insights, findings, and theoretical explanations
3. Synthesize information into clear, flowing narrative
4. Maintain proper source citations

Writing style:
- Long, flowing paragraphs (5-10 sentences)
- Detailed theoretical explanations
- Connect concepts and show relationships
- Professional, engaging prose
- Cite sources naturally

Focus on depth and clarity.`

// buildPlanningPrompt builds the user message for the planning call.
func buildPlanningPrompt(query string, workerCount int) string {
	subtaskCount := workerCount
	if subtaskCount > 5 {
		subtaskCount = 5
	}
	return fmt.Sprintf(`Analyze this research query and create a detailed execution plan:

Query: %q

Available worker agents: %d

Create a research plan that:
1. Breaks down the query into %d focused subtasks
2. Each subtask should explore a different aspect or perspective
3. Tasks should be parallelizable (independent of each other)
4. Plan for comprehensive coverage of the topic

Respond in JSON format as specified in the system prompt.`, query, workerCount, subtaskCount)
}

// buildSynthesisPrompt builds the user message for the synthesis call.
func buildSynthesisPrompt(query, strategy, findings string) string {
	return fmt.Sprintf(`Synthesize these findings from multiple worker agents into a comprehensive analysis:

Original Query: %q

Synthesis Strategy: %s

Worker Findings:
%s

Create a comprehensive, flowing narrative that:
1. Combines insights from all workers into unified analysis
2. Identifies key themes and patterns
3. Shows connections between different aspects
4. Uses long, flowing paragraphs (5-10 sentences)
5. Preserves source citations
6. Explains concepts thoroughly with theoretical depth

Write in professional, engaging prose. Make it detailed enough that someone reading it gains deep understanding of the topic.`, query, strategy, findings)
}

// buildExecutionPrompt builds the user message for a worker's subtask call.
func buildExecutionPrompt(query, focus, depth, sourceSummary, context string) string {
	return fmt.Sprintf(`Execute this research subtask with deep analysis using multi-source information:

Subtask: %s
Focus Area: %s
Required Depth: %s

Available Sources: %s

Retrieved Context:
%s

Analyze this content from BOTH corpus documents and web sources, then create a comprehensive response that:
1. Thoroughly addresses the subtask question
2. Explains theoretical concepts in depth
3. Uses long, flowing paragraphs (5-10 sentences)
4. Connects ideas and shows relationships across different sources
5. Includes specific details, data, and examples from the context
6. Integrates insights from both corpus documents and current web information

Make it detailed and insightful. Explain WHY things work, not just WHAT. Synthesize information across source types when relevant.`,
		query, focus, depth, sourceSummary, context)
}

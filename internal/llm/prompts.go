package llm

import "fmt"

func parsePrompt(userQuery string) string {
	return fmt.Sprintf(`You are a query parser for Indian agricultural and climate data.

Extract structured information from this query. Be thorough and catch ALL mentioned entities.

Query: %s

Return ONLY valid JSON (no markdown, no code blocks, just the JSON object):

{
  "intent": "compare_rainfall" | "compare_crops" | "correlation" | "identify_district" | "analyze_trend" | "policy_analysis" | "general",
  "states": ["State1", "State2"],
  "districts": ["District1"],
  "crops": ["Crop1"],
  "crop_types": ["Cereal", "Pulse"],
  "years": [start_year, end_year],
  "seasons": [],
  "metrics": ["rainfall", "production"],
  "comparison_type": "between_states",
  "top_n": 5
}

IMPORTANT RULES:
1. If query mentions "last N years", calculate from 2005 (latest crop data): years = [2005-N+1, 2005]
2. If query mentions "last 5 years": years = [2001, 2005]
3. Extract ALL state names mentioned in the query
4. If query asks for both rainfall AND crops, intent should be "correlation"
5. If query asks for "cereals", add crop_types: ["Cereal"]
6. Cereal crops include: Rice, Wheat, Maize, Bajra, Jowar, Ragi, Barley
7. Always extract the top_n number if mentioned (e.g., "top 5" means top_n: 5)

Examples:

Query: "Compare rainfall in Maharashtra and Gujarat for last 5 years"
{"intent": "compare_rainfall", "states": ["Maharashtra", "Gujarat"], "districts": [], "crops": [], "crop_types": [], "years": [2011, 2015], "seasons": [], "metrics": ["rainfall"], "comparison_type": "between_states", "top_n": 5}

Query: "Compare average annual rainfall in Maharashtra and Gujarat for last 5 years. List top 5 cereals by production in each state during same period"
{"intent": "correlation", "states": ["Maharashtra", "Gujarat"], "districts": [], "crops": [], "crop_types": ["Cereal"], "years": [2001, 2005], "seasons": [], "metrics": ["rainfall", "production"], "comparison_type": "between_states", "top_n": 5}

Query: "Top 5 wheat producing districts in Punjab in 2003"
{"intent": "compare_crops", "states": ["Punjab"], "districts": [], "crops": ["Wheat"], "crop_types": [], "years": [2003, 2003], "seasons": [], "metrics": ["production"], "comparison_type": "between_districts", "top_n": 5}

Now parse this query and return ONLY the JSON object:
Query: %s`, userQuery, userQuery)
}

func answerPrompt(userQuery, dataContext, resultsJSON string) string {
	return fmt.Sprintf(`You are an expert agricultural data analyst for India.

User Question: %s

Retrieved Data Context:
%s

Query Results Summary:
%s

Instructions:
1. Answer the user's question directly using the available data
2. If the data is from a different time period than requested (e.g., user asks for "last 5 years" but data is from 2001-2005), explain this naturally at the start and proceed with the analysis
3. For EVERY specific data point, number, or claim, cite the source using this format: [Source: Dataset Name, Filters: Key=Value, Records: N]
4. Structure your response:
   - Brief note if time period differs from request
   - Direct answer with comparisons
   - Detailed breakdown with numbers
   - Key insights
5. Be precise with numbers, use proper formatting (e.g., "2,913,600 tonnes")
6. Present the data professionally
7. Do NOT make up any data

Example citation format:
"Maharashtra's top cereal crop was Jowar with 2,913,600 tonnes of production during 2001-2005 [Source: District-wise Crop Production, Filters: State=Maharashtra Years=2001-2005 Crop_Types=Cereal, Records: 166]"

"The Gujarat Region subdivision received an average annual rainfall of 850mm during 2001-2005 [Source: Area-weighted Rainfall Data, Filters: Subdivision=Gujarat Region Years=2001-2005, Records: 5]"

Generate a comprehensive, professional response:
`, userQuery, dataContext, resultsJSON)
}

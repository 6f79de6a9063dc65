package xg

// embedded is the built-in xG dataset: Premier League and Championship
// squads for the 2020/2021 to 2024/2025 seasons. Team names follow
// football-data.co.uk.
var embedded = []Record{
	{Team: "Arsenal", Season: "2024/2025", XG: 59.9, XGA: 34.4},
	{Team: "Arsenal", Season: "2023/2024", XG: 76.1, XGA: 27.9},
	{Team: "Arsenal", Season: "2022/2023", XG: 71.6, XGA: 42.0},
	{Team: "Arsenal", Season: "2021/2022", XG: 60.5, XGA: 45.7},
	{Team: "Arsenal", Season: "2020/2021", XG: 51.7, XGA: 43.0},
	{Team: "Man City", Season: "2024/2025", XG: 68.1, XGA: 47.7},
	{Team: "Man City", Season: "2023/2024", XG: 80.5, XGA: 35.6},
	{Team: "Man City", Season: "2022/2023", XG: 78.6, XGA: 32.1},
	{Team: "Man City", Season: "2021/2022", XG: 88.7, XGA: 24.6},
	{Team: "Man City", Season: "2020/2021", XG: 68.2, XGA: 30.2},
	{Team: "Liverpool", Season: "2024/2025", XG: 82.2, XGA: 38.6},
	{Team: "Liverpool", Season: "2023/2024", XG: 87.8, XGA: 45.7},
	{Team: "Liverpool", Season: "2022/2023", XG: 71.5, XGA: 50.8},
	{Team: "Liverpool", Season: "2021/2022", XG: 88.7, XGA: 33.8},
	{Team: "Liverpool", Season: "2020/2021", XG: 67.5, XGA: 43.0},
	{Team: "Man United", Season: "2024/2025", XG: 52.6, XGA: 53.8},
	{Team: "Man United", Season: "2023/2024", XG: 56.5, XGA: 68.9},
	{Team: "Man United", Season: "2022/2023", XG: 67.7, XGA: 50.4},
	{Team: "Man United", Season: "2021/2022", XG: 55.8, XGA: 53.0},
	{Team: "Man United", Season: "2020/2021", XG: 60.1, XGA: 41.4},
	{Team: "Chelsea", Season: "2024/2025", XG: 67.8, XGA: 47.3},
	{Team: "Chelsea", Season: "2023/2024", XG: 74.5, XGA: 58.1},
	{Team: "Chelsea", Season: "2022/2023", XG: 49.5, XGA: 52.5},
	{Team: "Chelsea", Season: "2021/2022", XG: 63.4, XGA: 33.2},
	{Team: "Chelsea", Season: "2020/2021", XG: 62.4, XGA: 30.3},
	{Team: "Tottenham", Season: "2024/2025", XG: 58.8, XGA: 63.3},
	{Team: "Tottenham", Season: "2023/2024", XG: 68.2, XGA: 53.4},
	{Team: "Tottenham", Season: "2022/2023", XG: 57.0, XGA: 49.6},
	{Team: "Tottenham", Season: "2021/2022", XG: 61.2, XGA: 39.3},
	{Team: "Tottenham", Season: "2020/2021", XG: 53.1, XGA: 49.1},
	{Team: "Aston Villa", Season: "2024/2025", XG: 56.1, XGA: 50.1},
	{Team: "Aston Villa", Season: "2023/2024", XG: 63.3, XGA: 59.9},
	{Team: "Aston Villa", Season: "2022/2023", XG: 50.3, XGA: 52.5},
	{Team: "Aston Villa", Season: "2021/2022", XG: 44.0, XGA: 49.0},
	{Team: "Aston Villa", Season: "2020/2021", XG: 52.5, XGA: 51.1},
	{Team: "Newcastle", Season: "2024/2025", XG: 63.8, XGA: 45.5},
	{Team: "Newcastle", Season: "2023/2024", XG: 76.0, XGA: 61.4},
	{Team: "Newcastle", Season: "2022/2023", XG: 71.9, XGA: 39.5},
	{Team: "Newcastle", Season: "2021/2022", XG: 38.1, XGA: 57.1},
	{Team: "Newcastle", Season: "2020/2021", XG: 43.4, XGA: 58.3},
	{Team: "Brighton", Season: "2024/2025", XG: 58.7, XGA: 54.6},
	{Team: "Brighton", Season: "2023/2024", XG: 56.8, XGA: 55.4},
	{Team: "Brighton", Season: "2022/2023", XG: 73.3, XGA: 50.2},
	{Team: "Brighton", Season: "2021/2022", XG: 46.2, XGA: 42.9},
	{Team: "Brighton", Season: "2020/2021", XG: 50.9, XGA: 35.3},
	{Team: "West Ham", Season: "2024/2025", XG: 47.0, XGA: 59.7},
	{Team: "West Ham", Season: "2023/2024", XG: 52.3, XGA: 71.1},
	{Team: "West Ham", Season: "2022/2023", XG: 49.2, XGA: 53.0},
	{Team: "West Ham", Season: "2021/2022", XG: 51.4, XGA: 53.5},
	{Team: "West Ham", Season: "2020/2021", XG: 55.4, XGA: 48.7},
	{Team: "Wolves", Season: "2024/2025", XG: 43.7, XGA: 58.1},
	{Team: "Wolves", Season: "2023/2024", XG: 46.7, XGA: 67.7},
	{Team: "Wolves", Season: "2022/2023", XG: 36.8, XGA: 59.9},
	{Team: "Wolves", Season: "2021/2022", XG: 37.5, XGA: 56.9},
	{Team: "Wolves", Season: "2020/2021", XG: 36.5, XGA: 49.5},
	{Team: "Crystal Palace", Season: "2024/2025", XG: 60.4, XGA: 49.1},
	{Team: "Crystal Palace", Season: "2023/2024", XG: 48.6, XGA: 52.0},
	{Team: "Crystal Palace", Season: "2022/2023", XG: 39.3, XGA: 48.1},
	{Team: "Crystal Palace", Season: "2021/2022", XG: 46.4, XGA: 40.7},
	{Team: "Crystal Palace", Season: "2020/2021", XG: 34.1, XGA: 58.2},
	{Team: "Bournemouth", Season: "2024/2025", XG: 64.0, XGA: 48.5},
	{Team: "Bournemouth", Season: "2023/2024", XG: 55.9, XGA: 58.1},
	{Team: "Bournemouth", Season: "2022/2023", XG: 38.5, XGA: 63.8},
	{Team: "Bournemouth", Season: "2021/2022", XG: 75.0, XGA: 46.4},
	{Team: "Bournemouth", Season: "2020/2021", XG: 64.4, XGA: 50.0},
	{Team: "Brentford", Season: "2024/2025", XG: 59.0, XGA: 55.4},
	{Team: "Brentford", Season: "2023/2024", XG: 58.2, XGA: 56.0},
	{Team: "Brentford", Season: "2022/2023", XG: 56.3, XGA: 48.8},
	{Team: "Brentford", Season: "2021/2022", XG: 45.8, XGA: 48.5},
	{Team: "Brentford", Season: "2020/2021", XG: 74.9, XGA: 39.4},
	{Team: "Fulham", Season: "2024/2025", XG: 49.0, XGA: 47.2},
	{Team: "Fulham", Season: "2023/2024", XG: 50.8, XGA: 62.9},
	{Team: "Fulham", Season: "2022/2023", XG: 46.2, XGA: 63.6},
	{Team: "Fulham", Season: "2021/2022", XG: 95.1, XGA: 43.3},
	{Team: "Fulham", Season: "2020/2021", XG: 40.5, XGA: 52.6},
	{Team: "Everton", Season: "2024/2025", XG: 41.8, XGA: 46.2},
	{Team: "Everton", Season: "2023/2024", XG: 54.0, XGA: 55.2},
	{Team: "Everton", Season: "2022/2023", XG: 45.2, XGA: 65.5},
	{Team: "Everton", Season: "2021/2022", XG: 41.2, XGA: 55.4},
	{Team: "Everton", Season: "2020/2021", XG: 45.7, XGA: 50.1},
	{Team: "Nott'm Forest", Season: "2024/2025", XG: 45.5, XGA: 48.9},
	{Team: "Nott'm Forest", Season: "2023/2024", XG: 49.9, XGA: 53.3},
	{Team: "Nott'm Forest", Season: "2022/2023", XG: 39.3, XGA: 64.2},
	{Team: "Nott'm Forest", Season: "2021/2022", XG: 68.6, XGA: 54.3},
	{Team: "Nott'm Forest", Season: "2020/2021", XG: 49.8, XGA: 52.2},
	{Team: "Burnley", Season: "2024/2025", XG: 57.5, XGA: 39.1},
	{Team: "Burnley", Season: "2023/2024", XG: 40.6, XGA: 70.4},
	{Team: "Burnley", Season: "2022/2023", XG: 66.2, XGA: 38.2},
	{Team: "Burnley", Season: "2021/2022", XG: 39.7, XGA: 57.1},
	{Team: "Burnley", Season: "2020/2021", XG: 39.3, XGA: 54.7},
	{Team: "Leeds", Season: "2024/2025", XG: 89.1, XGA: 29.6},
	{Team: "Leeds", Season: "2023/2024", XG: 79.5, XGA: 38.0},
	{Team: "Leeds", Season: "2022/2023", XG: 47.3, XGA: 67.1},
	{Team: "Leeds", Season: "2021/2022", XG: 44.4, XGA: 67.8},
	{Team: "Leeds", Season: "2020/2021", XG: 55.6, XGA: 57.9},
	{Team: "Sunderland", Season: "2024/2025", XG: 58.1, XGA: 49.0},
	{Team: "Sunderland", Season: "2023/2024", XG: 61.7, XGA: 50.5},
	{Team: "Sunderland", Season: "2022/2023", XG: 58.3, XGA: 52.3},
	{Team: "Sunderland", Season: "2021/2022", XG: 79.1, XGA: 52.9},
	{Team: "Sunderland", Season: "2020/2021", XG: 71.5, XGA: 43.6},
}

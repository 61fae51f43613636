// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package export renders completed responses for download.

Formats:

	Delimited    comma-separated text, every cell quoted
	Spreadsheet  Delimited prefixed with a UTF-8 byte order mark
	Report       printable HTML, one section per survey
	Stats        response and question counts per survey

Every format shares the same columns: response ID, submission time,
duration, respondent fields (employee name and email for internal surveys,
name, email and phone for external ones), then one column per question in
order. Employee fields are blank for anonymous internal surveys.

An unknown or deleted survey ID fails the whole export with a not found
error.
*/
package export

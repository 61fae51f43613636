// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package response decides who may respond to a survey and stores their
answers.

# Eligibility

CanUserRespond checks, in order: the survey accepts responses (effective
status, start date, response cap), then for internal surveys that the
employee is targeted and has not already responded unless AllowMultiple
is set. External surveys are open to anyone.

# Ingestion

SubmitResponse binds every answer to its typed value, then:

 1. External surveys without AllowMultiple reject an email that already
    responded. This check runs before the transaction, so two concurrent
    submissions with the same email can both succeed.
 2. In one transaction it locks the survey row, re-checks eligibility,
    inserts the response and answers, marks the target link, and
    recomputes the survey counters with COUNT(*).

UpdateResponse and DeleteResponses keep the same counters consistent.
*/
package response

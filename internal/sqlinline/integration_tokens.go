package sqlinline

const QSelectIntegrationToken = `--sql f7f91768-c2e4-4ebe-ba08-913b473058e7
select token
from integration_tokens
where provider = $1::text
limit 1;
`

const QUpsertIntegrationToken = `--sql 8c36e601-9401-4db5-a995-4164ea296830
insert into integration_tokens (id, provider, token, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, now(), now())
on conflict (provider) do update set
    token = excluded.token,
    updated_at = now();
`

const QListIntegrationProviders = `--sql eb1c8096-b751-4e32-8e17-375550702e43
select provider, updated_at
from integration_tokens
order by provider;
`
